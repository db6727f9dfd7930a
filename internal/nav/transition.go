// Package nav owns the currently selected cell line and keeps it in step
// with the browser location.
package nav

import (
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/route"
)

// State is everything the controller remembers between events.
type State struct {
	CellLineID identity.CellLineID
}

// Event is one candidate update: a raw id (possibly empty or malformed),
// the requested history action and the route observed when it arrived.
type Event struct {
	Candidate string
	Action    browser.Action
	Route     route.State
}

// Decision is what Transition chose to do with an event.
type Decision int

const (
	DecisionNavigate      Decision = iota
	DecisionSuppressEmpty          // neither the candidate nor the current id is set
	DecisionSuppressLoop           // already on an entity page for this id
	DecisionSuppressNoID           // no id to show and nothing to retain on this page
)

func (d Decision) String() string {
	switch d {
	case DecisionNavigate:
		return "navigate"
	case DecisionSuppressEmpty:
		return "suppress-empty"
	case DecisionSuppressLoop:
		return "suppress-loop"
	case DecisionSuppressNoID:
		return "suppress-no-id"
	}
	return "unknown"
}

// Effect describes the navigation, if any, that an event produces.
type Effect struct {
	Decision   Decision
	Location   string
	Action     browser.Action
	Kind       route.PageKind
	CellLineID identity.CellLineID
}

// Navigates reports whether the effect requires a history update.
func (e Effect) Navigates() bool {
	return e.Decision == DecisionNavigate
}

// Transition applies the identity rules to one event. It is pure: the
// caller performs the returned effect.
func Transition(s State, ev Event) (State, Effect) {
	candidate := identity.Decode(ev.Candidate)
	current := s.CellLineID
	onEntityPage := ev.Route.Kind.IsEntity()

	if candidate.IsNone() && current.IsNone() {
		return s, Effect{Decision: DecisionSuppressEmpty, CellLineID: current}
	}

	// A page that re-reports the id we just navigated to must not navigate
	// again, or every navigation would feed back into itself.
	if onEntityPage && candidate == current {
		return s, Effect{Decision: DecisionSuppressLoop, CellLineID: current}
	}

	if candidate.IsNone() {
		if !onEntityPage {
			return s, Effect{Decision: DecisionSuppressNoID, CellLineID: current}
		}
		// e.g. /target/CID000367 -> /annotations keeps the selected line
		candidate = current
	}

	kind := ev.Route.Kind
	if !kind.IsEntity() {
		kind = route.KindTarget
	}

	action := ev.Action
	if action != browser.ActionReplace {
		action = browser.ActionPush
	}

	eff := Effect{
		Decision:   DecisionNavigate,
		Location:   "/" + string(kind) + "/" + identity.Encode(candidate) + ev.Route.Query,
		Action:     action,
		Kind:       kind,
		CellLineID: candidate,
	}
	return State{CellLineID: candidate}, eff
}
