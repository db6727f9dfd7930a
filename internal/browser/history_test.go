package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/route"
)

func newTestHistory() *History {
	return NewHistory(route.NewTable(mode.Private))
}

func TestHistoryPushReplace(t *testing.T) {
	h := newTestHistory()
	assert.Equal(t, "/", h.Location())
	assert.Equal(t, route.ViewLanding, h.Current().View)

	h.Navigate("/gallery", ActionReplace) // empty history: behaves like push
	assert.Equal(t, 1, h.Len())

	h.Navigate("/target/367", ActionPush)
	h.Navigate("/target/CID000367", ActionReplace)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "/target/CID000367", h.Location())

	st, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, "/gallery", st.Path)
	assert.True(t, h.CanGoForward())

	h.Navigate("/about", ActionPush)
	assert.False(t, h.CanGoForward(), "push truncates forward entries")
	assert.Equal(t, 2, h.Len())
	st, ok = h.Back()
	require.True(t, ok)
	assert.Equal(t, "/gallery", st.Path)
}

func TestHistoryBackForwardBounds(t *testing.T) {
	h := newTestHistory()
	_, ok := h.Back()
	assert.False(t, ok)
	_, ok = h.Forward()
	assert.False(t, ok)

	h.Navigate("/a", ActionPush)
	_, ok = h.Back()
	assert.False(t, ok)
	assert.False(t, h.CanGoBack())

	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, "/", h.Location())
}

func TestHistoryNormalizesLocation(t *testing.T) {
	h := newTestHistory()
	h.Navigate("target/CID000001?mode=private", ActionPush)
	assert.Equal(t, "/target/CID000001?mode=private", h.Location())

	st := h.Current()
	assert.Equal(t, route.KindTarget, st.Kind)
	assert.Equal(t, "?mode=private", st.Query)
}

func TestHistoryListeners(t *testing.T) {
	h := newTestHistory()

	var actions []Action
	var paths []string
	unsubscribe := h.Listen(func(st route.State, a Action) {
		actions = append(actions, a)
		paths = append(paths, st.Path)
	})

	var pops []string
	h.OnPop(func(st route.State, a Action) {
		assert.Equal(t, ActionPop, a)
		pops = append(pops, st.Path)
	})

	h.Navigate("/gallery", ActionPush)
	h.Navigate("/target/CID000001", ActionPush)
	h.Navigate("/target/CID000001", ActionReplace)
	h.Back()
	h.Forward()

	assert.Equal(t, []Action{ActionPush, ActionPush, ActionReplace, ActionPop, ActionPop}, actions)
	assert.Equal(t, []string{"/gallery", "/target/CID000001", "/target/CID000001", "/gallery", "/target/CID000001"}, paths)
	assert.Equal(t, []string{"/gallery", "/target/CID000001"}, pops)

	unsubscribe()
	h.Navigate("/about", ActionPush)
	assert.Len(t, actions, 5)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "push", ActionPush.String())
	assert.Equal(t, "replace", ActionReplace.String())
	assert.Equal(t, "pop", ActionPop.String())
	assert.Equal(t, "unknown", Action(42).String())
}
