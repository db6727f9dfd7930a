// Package pages serves the informational pages (about, help, downloads and
// so on). Each page ships embedded in the binary; when a remote site is
// configured the live version is fetched and cleaned instead.
package pages

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/vidyasagar/cellsurf/internal/browser"
)

//go:embed content/*.html
var content embed.FS

// ErrUnknownPage is returned for a name with no page behind it.
var ErrUnknownPage = errors.New("unknown page")

// Names lists the pages in navbar order.
var Names = []string{"about", "help", "download", "privacy", "contact", "jobs"}

// Has reports whether name is a static page.
func Has(name string) bool {
	_, err := fs.Stat(content, "content/"+name+".html")
	return err == nil
}

// Source loads static pages.
type Source struct {
	fetcher   *browser.Fetcher
	remoteURL string
	logger    *slog.Logger
}

// NewSource returns a Source. With an empty remoteURL only the embedded
// pages are used.
func NewSource(remoteURL string, fetcher *browser.Fetcher, logger *slog.Logger) *Source {
	if fetcher == nil {
		fetcher = browser.NewFetcher(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		fetcher:   fetcher,
		remoteURL: strings.TrimRight(remoteURL, "/"),
		logger:    logger.With("component", "pages"),
	}
}

// Load returns the document for a page. A remote failure is logged and
// the embedded copy is served.
func (s *Source) Load(ctx context.Context, name string) (*browser.Document, error) {
	if !Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}

	if s.remoteURL != "" {
		doc, err := s.remote(ctx, name)
		if err == nil {
			return doc, nil
		}
		s.logger.Warn("remote page failed, using embedded copy", "page", name, "error", err)
	}
	return Embedded(name)
}

func (s *Source) remote(ctx context.Context, name string) (*browser.Document, error) {
	result, err := s.fetcher.Fetch(ctx, s.remoteURL+"/"+name)
	if err != nil {
		return nil, err
	}
	doc, err := browser.Extract(result, s.remoteURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, errors.New("empty article")
	}
	return doc, nil
}

// Embedded returns the copy of a page compiled into the binary.
func Embedded(name string) (*browser.Document, error) {
	start := time.Now()
	f, err := content.Open("content/" + name + ".html")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}
	defer f.Close()

	sel, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	body, err := sel.Find("body").Html()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return &browser.Document{
		Title:     strings.TrimSpace(sel.Find("title").Text()),
		HTML:      body,
		Text:      strings.TrimSpace(sel.Find("body").Text()),
		FetchTime: time.Since(start),
	}, nil
}
