package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/route"
)

type navCall struct {
	location string
	action   browser.Action
}

// fakeNavigator records navigations and serves a fixed location until told
// otherwise.
type fakeNavigator struct {
	table    *route.Table
	location string
	calls    []navCall
}

func newFakeNavigator(location string) *fakeNavigator {
	return &fakeNavigator{table: route.NewTable(mode.Private), location: location}
}

func (f *fakeNavigator) Current() route.State {
	return route.Parse(f.table, f.location)
}

func (f *fakeNavigator) Navigate(location string, action browser.Action) {
	f.calls = append(f.calls, navCall{location: location, action: action})
	f.location = location
}

// controllerAt returns a controller whose selected id is n (0 for none),
// sitting at location, with the fake's call log cleared.
func controllerAt(t *testing.T, location string, n int) (*Controller, *fakeNavigator) {
	t.Helper()
	fake := newFakeNavigator(location)
	c := NewController(fake, nil)
	c.state = State{CellLineID: identity.New(n)}
	return c, fake
}

func TestSuppressWhenBothEmpty(t *testing.T) {
	c, fake := controllerAt(t, "/target", 0)

	eff := c.SetCellLineID("", browser.ActionPush)
	assert.Equal(t, DecisionSuppressEmpty, eff.Decision)
	assert.Empty(t, fake.calls)

	eff = c.SetCellLineID("not-a-number", browser.ActionPush)
	assert.Equal(t, DecisionSuppressEmpty, eff.Decision)
	assert.Empty(t, fake.calls)
	assert.True(t, c.CellLineID().IsNone())
}

func TestLoopSuppression(t *testing.T) {
	for _, loc := range []string{"/target/CID000367", "/fovs/CID000367", "/annotations/CID000367"} {
		t.Run(loc, func(t *testing.T) {
			c, fake := controllerAt(t, loc, 367)

			eff := c.SetCellLineID("CID000367", browser.ActionReplace)
			assert.Equal(t, DecisionSuppressLoop, eff.Decision)

			eff = c.SetCellLineID("367", browser.ActionPush)
			assert.Equal(t, DecisionSuppressLoop, eff.Decision)

			assert.Empty(t, fake.calls)
		})
	}
}

func TestRetentionOnEntityPage(t *testing.T) {
	c, fake := controllerAt(t, "/fovs?mode=private", 367)

	eff := c.SetCellLineID("", browser.ActionReplace)
	require.True(t, eff.Navigates())
	require.Len(t, fake.calls, 1)
	assert.Equal(t, navCall{"/fovs/CID000367?mode=private", browser.ActionReplace}, fake.calls[0])
	assert.Equal(t, identity.New(367), c.CellLineID())

	st := fake.Current()
	assert.Equal(t, route.KindFOVs, st.Kind)
	assert.Equal(t, identity.New(367), st.ID)

	// Re-reporting the retained id is now a no-op.
	eff = c.SetCellLineID(st.RawID, browser.ActionReplace)
	assert.Equal(t, DecisionSuppressLoop, eff.Decision)
	assert.Len(t, fake.calls, 1)
}

func TestNoIDOffEntityPage(t *testing.T) {
	c, fake := controllerAt(t, "/gallery", 12)

	eff := c.SetCellLineID("", browser.ActionPush)
	assert.Equal(t, DecisionSuppressNoID, eff.Decision)
	assert.Empty(t, fake.calls)
	assert.Equal(t, identity.New(12), c.CellLineID())
}

func TestCanonicalization(t *testing.T) {
	tests := []struct {
		name     string
		location string
		current  int
		raw      string
		want     string
	}{
		{"from gallery", "/gallery", 0, "5", "/target/CID000005"},
		{"from root", "/", 0, "5", "/target/CID000005"},
		{"from targets table", "/targets?mode=private", 3, "CID000005", "/target/CID000005?mode=private"},
		{"same id from gallery still redirects", "/gallery", 5, "5", "/target/CID000005"},
		{"from search payload", "/search/map4", 0, "OPCT00000000828", "/target/CID000828"},
		{"stays in fovs", "/fovs/CID000001", 1, "2", "/fovs/CID000002"},
		{"stays in annotations", "/annotations/CID000001", 1, "CID000002", "/annotations/CID000002"},
		{"bare id in url canonicalized", "/target/367", 0, "367", "/target/CID000367"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := controllerAt(t, tt.location, tt.current)

			eff := c.SetCellLineID(tt.raw, browser.ActionPush)
			require.True(t, eff.Navigates())
			require.Len(t, fake.calls, 1)
			assert.Equal(t, tt.want, fake.calls[0].location)
			assert.Equal(t, browser.ActionPush, fake.calls[0].action)

			// Round trip: the new route is an entity page decoding to the id.
			st := fake.Current()
			assert.True(t, st.Kind.IsEntity())
			assert.Equal(t, c.CellLineID(), st.ID)
		})
	}
}

func TestSubscribe(t *testing.T) {
	c, _ := controllerAt(t, "/gallery", 0)

	var seen []identity.CellLineID
	unsubscribe := c.Subscribe(func(id identity.CellLineID) {
		seen = append(seen, id)
	})

	c.SetCellLineID("5", browser.ActionPush)
	c.SetCellLineID("5", browser.ActionReplace) // suppressed on /target/CID000005
	c.SetCellLineID("6", browser.ActionPush)

	assert.Equal(t, []identity.CellLineID{identity.New(5), identity.New(6)}, seen)

	unsubscribe()
	c.SetCellLineID("7", browser.ActionPush)
	assert.Len(t, seen, 2)
}

func TestTransitionIsPure(t *testing.T) {
	table := route.NewTable(mode.Public)
	s := State{CellLineID: identity.New(1)}
	ev := Event{Candidate: "2", Action: browser.ActionReplace, Route: route.Parse(table, "/target/CID000001?x=1")}

	next, eff := Transition(s, ev)
	assert.Equal(t, identity.New(1), s.CellLineID, "input state untouched")
	assert.Equal(t, identity.New(2), next.CellLineID)
	assert.Equal(t, "/target/CID000002?x=1", eff.Location)
	assert.Equal(t, browser.ActionReplace, eff.Action)
	assert.Equal(t, route.KindTarget, eff.Kind)

	// ActionPop is not a valid outgoing action and is sent as a push.
	ev.Action = browser.ActionPop
	_, eff = Transition(s, ev)
	assert.Equal(t, browser.ActionPush, eff.Action)
}

func TestWithRealHistory(t *testing.T) {
	h := browser.NewHistory(route.NewTable(mode.Private))
	c := NewController(h, nil)
	h.OnPop(c.HandlePop)

	// A page view re-reports the id from the URL after every route change.
	h.Listen(func(st route.State, _ browser.Action) {
		if st.Kind.IsEntity() {
			c.SetCellLineID(st.RawID, browser.ActionReplace)
		}
	})

	h.Navigate("/fovs/CID000367", browser.ActionPush)
	assert.Equal(t, identity.New(367), c.CellLineID())
	assert.Equal(t, 1, h.Len())

	// Navbar "Annotations" link carries no id.
	h.Navigate("/annotations", browser.ActionPush)
	assert.Equal(t, "/annotations/CID000367", h.Location())
	assert.Equal(t, 2, h.Len(), "retention replaces, it does not add an entry")

	c.SetCellLineID("CID000012", browser.ActionPush)
	assert.Equal(t, "/annotations/CID000012", h.Location())
	assert.Equal(t, 3, h.Len())

	// Back reconciles the selected id with the popped location.
	_, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, "/annotations/CID000367", h.Location())
	assert.Equal(t, identity.New(367), c.CellLineID())
	assert.Equal(t, 3, h.Len())

	_, ok = h.Back()
	require.True(t, ok)
	assert.Equal(t, "/fovs/CID000367", h.Location())
	assert.Equal(t, identity.New(367), c.CellLineID())
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "navigate", DecisionNavigate.String())
	assert.Equal(t, "suppress-loop", DecisionSuppressLoop.String())
	assert.Equal(t, "suppress-empty", DecisionSuppressEmpty.String())
	assert.Equal(t, "suppress-no-id", DecisionSuppressNoID.String())
	assert.Equal(t, "unknown", Decision(9).String())
}
