package nav

import (
	"log/slog"

	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/route"
)

// Navigator is the slice of the history adapter the controller needs.
// *browser.History satisfies it.
type Navigator interface {
	Current() route.State
	Navigate(location string, action browser.Action)
}

type subscriber struct {
	id int
	fn func(identity.CellLineID)
}

// Controller is the single owner of the selected cell line id. Views read
// it through CellLineID or Subscribe and change it only through
// SetCellLineID.
type Controller struct {
	nav    Navigator
	state  State
	logger *slog.Logger

	nextID int
	subs   []subscriber
}

// NewController creates a controller with no selected cell line.
func NewController(nav Navigator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		nav:    nav,
		logger: logger.With("component", "identity"),
	}
}

// CellLineID returns the selected cell line, or identity.None.
func (c *Controller) CellLineID() identity.CellLineID {
	return c.state.CellLineID
}

// SetCellLineID offers a new candidate id. raw may be in CID form, OPCT
// form, a bare number, or empty/malformed (treated as no id). The returned
// effect reports what was done.
func (c *Controller) SetCellLineID(raw string, action browser.Action) Effect {
	ev := Event{Candidate: raw, Action: action, Route: c.nav.Current()}
	prev := c.state.CellLineID

	next, eff := Transition(c.state, ev)
	if !eff.Navigates() {
		c.logger.Debug("cell line update suppressed",
			"candidate", raw,
			"current", prev.String(),
			"path", ev.Route.Path,
			"reason", eff.Decision.String())
		return eff
	}

	// Commit before navigating: route listeners that call back in with the
	// same id must already see it as current.
	c.state = next
	c.nav.Navigate(eff.Location, eff.Action)

	c.logger.Debug("cell line navigation",
		"from", ev.Route.Location(),
		"to", eff.Location,
		"action", eff.Action.String(),
		"cell_line_id", next.CellLineID.String())

	if next.CellLineID != prev {
		c.publish(next.CellLineID)
	}
	return eff
}

// HandlePop reconciles the selected id with a location reached through
// back/forward. It has the browser.Listener signature so it can be passed to
// History.OnPop.
func (c *Controller) HandlePop(st route.State, _ browser.Action) {
	c.logger.Info("history pop", "path", st.Location(), "cell_line_id", st.ID.String())
	if !st.Kind.IsEntity() || st.ID.IsNone() {
		return
	}
	c.SetCellLineID(st.RawID, browser.ActionReplace)
}

// Subscribe registers fn to be called whenever the selected id changes.
// The returned func unregisters it.
func (c *Controller) Subscribe(fn func(identity.CellLineID)) func() {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) publish(id identity.CellLineID) {
	subs := append([]subscriber(nil), c.subs...)
	for _, s := range subs {
		s.fn(id)
	}
}
