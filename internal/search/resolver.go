// Package search turns gene-name queries into navigation: a tagged cell line
// becomes the selected cell line, an untagged gene opens its profile page.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/nav"
)

// Lookup resolves a gene name. *api.Client satisfies it.
type Lookup interface {
	SearchGeneName(ctx context.Context, name string, publicationReadyOnly bool) (api.GeneNameResult, error)
}

// IDSetter is the identity mutator. *nav.Controller satisfies it.
type IDSetter interface {
	SetCellLineID(raw string, action browser.Action) nav.Effect
}

// Kind classifies the outcome of a lookup.
type Kind int

const (
	KindNone     Kind = iota // empty query, nothing was looked up
	KindTarget               // matched a tagged cell line
	KindGene                 // matched only untagged genes
	KindNotFound             // matched nothing
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTarget:
		return "target"
	case KindGene:
		return "gene"
	case KindNotFound:
		return "not-found"
	}
	return "unknown"
}

// Outcome is the result of a lookup, before it is applied.
type Outcome struct {
	Query  string // sanitized query
	Kind   Kind
	OCID   string // first matching cell line, OPCT form
	ENSGID string // first matching gene
}

// Sanitize drops everything from the first slash on. Network node labels
// such as "MAP4/MAP7" cannot be sent as a path segment.
func Sanitize(query string) string {
	if i := strings.IndexByte(query, '/'); i >= 0 {
		query = query[:i]
	}
	return strings.TrimSpace(query)
}

// Resolver runs gene-name searches. It is not safe for concurrent use:
// Resolve may run on any goroutine, Apply must run on the UI loop.
type Resolver struct {
	lookup Lookup
	ids    IDSetter
	nav    nav.Navigator
	mode   mode.Mode
	logger *slog.Logger

	found bool
}

// NewResolver creates a resolver for the given mode.
func NewResolver(lookup Lookup, ids IDSetter, navigator nav.Navigator, m mode.Mode, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		lookup: lookup,
		ids:    ids,
		nav:    navigator,
		mode:   m,
		logger: logger.With("component", "search"),
		found:  true,
	}
}

// Resolve performs the lookup. It has no side effects on navigation and is
// never deduplicated: repeating a query repeats the lookup.
func (r *Resolver) Resolve(ctx context.Context, query string) (Outcome, error) {
	q := Sanitize(query)
	out := Outcome{Query: q}
	if q == "" {
		return out, nil
	}

	res, err := r.lookup.SearchGeneName(ctx, q, r.mode.PublicationReadyOnly())
	if err != nil {
		return out, fmt.Errorf("searching %q: %w", q, err)
	}

	// Several matches are possible; the first one wins.
	switch {
	case res.HasTargets():
		out.Kind = KindTarget
		out.OCID = res.OCIDs[0]
	case res.HasGenes():
		out.Kind = KindGene
		out.ENSGID = res.ENSGIDs[0]
	default:
		out.Kind = KindNotFound
	}
	r.logger.Debug("resolved", "query", q, "kind", out.Kind.String(), "oc_id", out.OCID, "ensg_id", out.ENSGID)
	return out, nil
}

// Apply performs the navigation for an outcome. A target match goes through
// the identity controller even when the id is unchanged, so searching from
// the gallery for the selected line still opens its profile.
func (r *Resolver) Apply(out Outcome) {
	switch out.Kind {
	case KindNone:
		return
	case KindTarget:
		r.found = true
		r.ids.SetCellLineID(out.OCID, browser.ActionPush)
	case KindGene:
		r.found = true
		query := r.nav.Current().Query
		r.nav.Navigate("/gene/"+out.ENSGID+query, browser.ActionPush)
	case KindNotFound:
		r.found = false
	}
}

// Found reports whether the last applied search matched anything. It is
// true until a search comes back empty.
func (r *Resolver) Found() bool {
	return r.found
}
