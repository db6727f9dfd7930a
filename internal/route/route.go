package route

import (
	"net/url"
	"strings"

	"github.com/vidyasagar/cellsurf/internal/mode"
)

// View names the page that renders a matched route.
type View string

const (
	ViewLanding     View = "landing"
	ViewTargets     View = "targets"
	ViewTarget      View = "target"
	ViewFOVs        View = "fovs"
	ViewAnnotations View = "annotations"
	ViewInteractor  View = "interactor"
	ViewSearch      View = "search"
	ViewGallery     View = "gallery"
	ViewAbout       View = "about"
	ViewHelp        View = "help"
	ViewDownload    View = "download"
	ViewPrivacy     View = "privacy"
	ViewContact     View = "contact"
	ViewJobs        View = "jobs"
	ViewDashboard   View = "dashboard"
	ViewUMAP        View = "umap"
	ViewNotFound    View = "notfound"
)

// Path parameter names.
const (
	ParamCellLineID = "cellLineId"
	ParamEnsgID     = "ensgId"
	ParamQuery      = "query"
)

// Visibility partitions routes by audience.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

// Route maps one or more path patterns to a view. Patterns use ":name" for
// parameters. Non-exact routes also match longer paths.
type Route struct {
	View       View
	Patterns   []string
	Exact      bool
	Visibility Visibility
}

// PublicRoutes are reachable in every mode, in match order.
func PublicRoutes() []Route {
	return []Route{
		{View: ViewTargets, Patterns: []string{"/target", "/targets"}, Exact: true},
		{View: ViewTarget, Patterns: []string{"/target/:cellLineId"}},
		{View: ViewInteractor, Patterns: []string{"/interactor/:ensgId", "/gene/:ensgId"}},
		{View: ViewSearch, Patterns: []string{"/search/:query", "/search"}},
	}
}

// PrivateRoutes are reachable only in private mode.
func PrivateRoutes() []Route {
	return []Route{
		{View: ViewFOVs, Patterns: []string{"/fovs/:cellLineId", "/fovs"}, Visibility: VisibilityPrivate},
		{View: ViewAnnotations, Patterns: []string{"/annotations/:cellLineId", "/annotations"}, Visibility: VisibilityPrivate},
		{View: ViewUMAP, Patterns: []string{"/umap"}, Visibility: VisibilityPrivate},
		{View: ViewDashboard, Patterns: []string{"/dashboard"}, Visibility: VisibilityPrivate},
	}
}

// StaticRoutes are the independent information pages, matched after the
// public and private routes.
func StaticRoutes() []Route {
	return []Route{
		{View: ViewGallery, Patterns: []string{"/gallery"}},
		{View: ViewAbout, Patterns: []string{"/about"}},
		{View: ViewHelp, Patterns: []string{"/help"}},
		{View: ViewDownload, Patterns: []string{"/download"}},
		{View: ViewPrivacy, Patterns: []string{"/privacy"}},
		{View: ViewContact, Patterns: []string{"/contact"}},
		{View: ViewJobs, Patterns: []string{"/jobs"}},
	}
}

// Table is the effective, ordered route list for one mode.
type Table struct {
	mode   mode.Mode
	routes []Route
}

// NewTable builds the route table for m: public routes, then private routes
// iff m is private, then the static pages.
func NewTable(m mode.Mode) *Table {
	routes := PublicRoutes()
	if m.IsPrivate() {
		routes = append(routes, PrivateRoutes()...)
	}
	routes = append(routes, StaticRoutes()...)
	return &Table{mode: m, routes: routes}
}

// Mode returns the mode the table was built for.
func (t *Table) Mode() mode.Mode {
	return t.mode
}

// Match finds the view for a path (no query string). The root path is the
// landing page in every mode; anything unmatched is ViewNotFound.
func (t *Table) Match(path string) (View, map[string]string) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return ViewLanding, nil
	}

	for _, r := range t.routes {
		for _, pattern := range r.Patterns {
			if params, ok := matchPattern(pattern, segs, r.Exact); ok {
				return r.View, params
			}
		}
	}
	return ViewNotFound, nil
}

// Allows reports whether a view is reachable in the table's mode.
func (t *Table) Allows(v View) bool {
	if v == ViewLanding || v == ViewNotFound {
		return true
	}
	for _, r := range t.routes {
		if r.View == v {
			return true
		}
	}
	return false
}

func matchPattern(pattern string, segs []string, exact bool) (map[string]string, bool) {
	psegs := splitPath(pattern)
	if len(segs) < len(psegs) {
		return nil, false
	}
	if exact && len(segs) != len(psegs) {
		return nil, false
	}

	var params map[string]string
	for i, p := range psegs {
		if strings.HasPrefix(p, ":") {
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s == "" {
			continue
		}
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		segs = append(segs, s)
	}
	return segs
}
