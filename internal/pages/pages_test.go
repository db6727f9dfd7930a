package pages

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/cellsurf/internal/browser"
)

const remote = "https://opencell.test"

func newSource(t *testing.T) (*Source, *httpmock.MockTransport) {
	t.Helper()
	mock := httpmock.NewMockTransport()
	fetcher := browser.NewFetcher(&http.Client{Transport: mock})
	return NewSource(remote+"/", fetcher, nil), mock
}

func TestEmbeddedPagesExist(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			assert.True(t, Has(name))
			doc, err := Embedded(name)
			require.NoError(t, err)
			assert.NotEmpty(t, doc.Title)
			assert.NotEmpty(t, doc.Text)
		})
	}
	assert.False(t, Has("targets"))
}

func TestEmbeddedLinksBecomeAppPaths(t *testing.T) {
	doc, err := Embedded("about")
	require.NoError(t, err)

	page := browser.RenderHTML(doc, 80)
	var internal, external []string
	for _, l := range page.Links {
		if l.Internal() {
			internal = append(internal, l.Href)
		} else {
			external = append(external, l.Href)
		}
	}
	assert.Contains(t, internal, "/download")
	assert.Contains(t, internal, "/targets")
	assert.Contains(t, external, "https://www.czbiohub.org/manuel-leonetti/")
}

func TestLoadWithoutRemote(t *testing.T) {
	s := NewSource("", nil, nil)
	doc, err := s.Load(context.Background(), "help")
	require.NoError(t, err)
	assert.Equal(t, "Help", doc.Title)
}

func TestLoadUnknown(t *testing.T) {
	s := NewSource("", nil, nil)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestLoadRemote(t *testing.T) {
	s, mock := newSource(t)

	para := "<p>" + strings.Repeat("OpenCell maps the localization and interactions of human proteins. ", 8) + "</p>"
	html := `<html><head><title>About OpenCell (live)</title></head><body><article>` +
		para + para + `<p>Browse the <a href="https://opencell.test/targets">targets</a>.</p></article></body></html>`
	mock.RegisterResponder(http.MethodGet, remote+"/about",
		httpmock.NewStringResponder(200, html).HeaderSet(http.Header{"Content-Type": {"text/html; charset=utf-8"}}))

	doc, err := s.Load(context.Background(), "about")
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "OpenCell maps the localization")
	assert.Equal(t, remote, doc.BaseURL)
	assert.Equal(t, 1, mock.GetTotalCallCount())
}

func TestLoadRemoteFallsBack(t *testing.T) {
	s, mock := newSource(t)
	mock.RegisterResponder(http.MethodGet, remote+"/jobs", httpmock.NewStringResponder(503, "down"))

	doc, err := s.Load(context.Background(), "jobs")
	require.NoError(t, err)
	assert.Equal(t, "We're hiring!", doc.Title)
	assert.Empty(t, doc.BaseURL)
	assert.Equal(t, 1, mock.GetTotalCallCount())
}
