package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/nav"
	"github.com/vidyasagar/cellsurf/internal/route"
)

type lookupCall struct {
	name    string
	pubOnly bool
}

type fakeLookup struct {
	results map[string]api.GeneNameResult
	err     error
	calls   []lookupCall
}

func (f *fakeLookup) SearchGeneName(_ context.Context, name string, pubOnly bool) (api.GeneNameResult, error) {
	f.calls = append(f.calls, lookupCall{name, pubOnly})
	if f.err != nil {
		return api.GeneNameResult{}, f.err
	}
	return f.results[name], nil
}

type fixture struct {
	history    *browser.History
	controller *nav.Controller
	lookup     *fakeLookup
	resolver   *Resolver
}

func newFixture(t *testing.T, m mode.Mode, start string) *fixture {
	t.Helper()
	h := browser.NewHistory(route.NewTable(m))
	h.Navigate(start, browser.ActionPush)
	c := nav.NewController(h, nil)
	lookup := &fakeLookup{results: map[string]api.GeneNameResult{
		"MAP4":  {OCIDs: []string{"OPCT00000000828", "OPCT00000000901"}, ENSGIDs: []string{"ENSG00000047849"}},
		"TUBB4": {ENSGIDs: []string{"ENSG00000104833"}},
	}}
	return &fixture{
		history:    h,
		controller: c,
		lookup:     lookup,
		resolver:   NewResolver(lookup, c, h, m, nil),
	}
}

func (f *fixture) search(t *testing.T, q string) Outcome {
	t.Helper()
	out, err := f.resolver.Resolve(context.Background(), q)
	require.NoError(t, err)
	f.resolver.Apply(out)
	return out
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "MAP4", Sanitize("MAP4"))
	assert.Equal(t, "MAP4", Sanitize("MAP4/MAP7"))
	assert.Equal(t, "MAP4", Sanitize(" MAP4 /x/y"))
	assert.Equal(t, "", Sanitize("/MAP4"))
	assert.Equal(t, "", Sanitize(""))
}

func TestSearchFromGallery(t *testing.T) {
	f := newFixture(t, mode.Private, "/gallery?mode=private")

	out := f.search(t, "MAP4")
	assert.Equal(t, KindTarget, out.Kind)
	assert.Equal(t, "OPCT00000000828", out.OCID, "first match wins")

	assert.Equal(t, "/target/CID000828?mode=private", f.history.Location())
	assert.Equal(t, identity.New(828), f.controller.CellLineID())
	assert.True(t, f.resolver.Found())
	assert.Equal(t, []lookupCall{{"MAP4", false}}, f.lookup.calls)
}

func TestSearchPublicModeRestrictsLookup(t *testing.T) {
	f := newFixture(t, mode.Public, "/gallery")
	f.search(t, "MAP4")
	require.Len(t, f.lookup.calls, 1)
	assert.True(t, f.lookup.calls[0].pubOnly)
	assert.Equal(t, "/target/CID000828", f.history.Location())
}

func TestSearchSanitizesBeforeLookup(t *testing.T) {
	f := newFixture(t, mode.Public, "/gallery")
	f.search(t, "MAP4/MAP7")
	assert.Equal(t, "MAP4", f.lookup.calls[0].name)
}

func TestSearchGeneOnly(t *testing.T) {
	f := newFixture(t, mode.Private, "/target/CID000012?mode=private")
	f.controller.SetCellLineID("CID000012", browser.ActionReplace)
	before := f.history.Len()

	out := f.search(t, "TUBB4")
	assert.Equal(t, KindGene, out.Kind)
	assert.Equal(t, "/gene/ENSG00000104833?mode=private", f.history.Location())
	assert.Equal(t, before+1, f.history.Len(), "gene profile is pushed")
	assert.Equal(t, identity.New(12), f.controller.CellLineID(), "selected line untouched")
	assert.Equal(t, route.ViewInteractor, f.history.Current().View)
}

func TestSearchNotFound(t *testing.T) {
	f := newFixture(t, mode.Public, "/gallery")

	out := f.search(t, "XYZ")
	assert.Equal(t, KindNotFound, out.Kind)
	assert.False(t, f.resolver.Found())
	assert.Equal(t, "/gallery", f.history.Location())

	f.search(t, "MAP4")
	assert.True(t, f.resolver.Found())
}

func TestSearchEmptyIsNoop(t *testing.T) {
	f := newFixture(t, mode.Public, "/gallery")
	out := f.search(t, "/MAP4")
	assert.Equal(t, KindNone, out.Kind)
	assert.Empty(t, f.lookup.calls)
	assert.Equal(t, "/gallery", f.history.Location())
}

func TestRepeatedSearchIsNotDeduplicated(t *testing.T) {
	f := newFixture(t, mode.Public, "/gallery")

	f.search(t, "MAP4")
	assert.Equal(t, "/target/CID000828", f.history.Location())

	f.history.Navigate("/gallery", browser.ActionPush)
	f.search(t, "MAP4")

	assert.Len(t, f.lookup.calls, 2)
	assert.Equal(t, "/target/CID000828", f.history.Location(), "same id still redirects off the gallery")
}

func TestSearchLookupError(t *testing.T) {
	f := newFixture(t, mode.Public, "/gallery")
	f.lookup.err = errors.New("connection refused")

	out, err := f.resolver.Resolve(context.Background(), "MAP4")
	require.Error(t, err)
	assert.Equal(t, KindNone, out.Kind)
	f.resolver.Apply(out)
	assert.Equal(t, "/gallery", f.history.Location())
	assert.True(t, f.resolver.Found())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "target", KindTarget.String())
	assert.Equal(t, "gene", KindGene.String())
	assert.Equal(t, "not-found", KindNotFound.String())
	assert.Equal(t, "none", KindNone.String())
}
