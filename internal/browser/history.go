package browser

import (
	"github.com/vidyasagar/cellsurf/internal/route"
)

// Action is the kind of navigation that produced the current entry.
type Action int

const (
	ActionPush    Action = iota // new entry; back returns to the previous one
	ActionReplace               // overwrite the current entry
	ActionPop                   // back/forward through existing entries
)

func (a Action) String() string {
	switch a {
	case ActionPush:
		return "push"
	case ActionReplace:
		return "replace"
	case ActionPop:
		return "pop"
	}
	return "unknown"
}

// Listener observes route changes.
type Listener func(st route.State, action Action)

type subscription struct {
	id int
	fn Listener
}

// History manages a back/forward stack of application locations
// ("/target/CID000367?mode=private") and parses the current one against the
// route table.
type History struct {
	entries []string
	pos     int // current position in the stack
	table   *route.Table

	nextID    int
	listeners []subscription
	poppers   []subscription
}

// NewHistory creates an empty navigation history.
func NewHistory(table *route.Table) *History {
	return &History{
		entries: nil,
		pos:     -1,
		table:   table,
	}
}

// Navigate pushes or replaces the current entry and notifies listeners.
// Replacing an empty history pushes.
func (h *History) Navigate(location string, action Action) {
	path, query := route.SplitLocation(location)
	location = path + query

	if action == ActionReplace && h.pos >= 0 {
		h.entries[h.pos] = location
	} else {
		action = ActionPush
		h.push(location)
	}
	h.notify(h.listeners, action)
}

func (h *History) push(location string) {
	// If we're not at the end, truncate forward history.
	if h.pos < len(h.entries)-1 {
		h.entries = h.entries[:h.pos+1]
	}
	h.entries = append(h.entries, location)
	h.pos = len(h.entries) - 1
}

// Back moves one step back in history. Returns the new route and true if possible.
func (h *History) Back() (route.State, bool) {
	if h.pos <= 0 {
		return route.State{}, false
	}
	h.pos--
	return h.popped(), true
}

// Forward moves one step forward in history. Returns the new route and true if possible.
func (h *History) Forward() (route.State, bool) {
	if h.pos >= len(h.entries)-1 {
		return route.State{}, false
	}
	h.pos++
	return h.popped(), true
}

func (h *History) popped() route.State {
	h.notify(h.poppers, ActionPop)
	h.notify(h.listeners, ActionPop)
	return h.Current()
}

// Location returns the current location, or "/" if history is empty.
func (h *History) Location() string {
	if h.pos < 0 || h.pos >= len(h.entries) {
		return "/"
	}
	return h.entries[h.pos]
}

// Current parses the current location. It never fails.
func (h *History) Current() route.State {
	return route.Parse(h.table, h.Location())
}

// Listen registers fn for every navigation, including pops. The returned
// func unregisters it.
func (h *History) Listen(fn Listener) func() {
	return h.subscribe(&h.listeners, fn)
}

// OnPop registers fn for back/forward navigation only. Pop handlers run
// before the general listeners.
func (h *History) OnPop(fn Listener) func() {
	return h.subscribe(&h.poppers, fn)
}

func (h *History) subscribe(list *[]subscription, fn Listener) func() {
	h.nextID++
	id := h.nextID
	*list = append(*list, subscription{id: id, fn: fn})
	return func() {
		for i, s := range *list {
			if s.id == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

func (h *History) notify(list []subscription, action Action) {
	if len(list) == 0 {
		return
	}
	st := h.Current()
	// Copy so a listener may unsubscribe while being notified.
	subs := append([]subscription(nil), list...)
	for _, s := range subs {
		s.fn(st, action)
	}
}

// CanGoBack reports whether there is a previous entry.
func (h *History) CanGoBack() bool {
	return h.pos > 0
}

// CanGoForward reports whether there is a next entry.
func (h *History) CanGoForward() bool {
	return h.pos < len(h.entries)-1
}

// Len returns the total number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear resets the history.
func (h *History) Clear() {
	h.entries = nil
	h.pos = -1
}
