package route

import (
	"strings"

	"github.com/vidyasagar/cellsurf/internal/identity"
)

// PageKind tags the path segments whose pages carry a cell line id.
type PageKind string

const (
	KindNone        PageKind = ""
	KindTarget      PageKind = "target"
	KindFOVs        PageKind = "fovs"
	KindAnnotations PageKind = "annotations"
)

// KindOf derives the page kind from a first path segment.
func KindOf(segment string) PageKind {
	switch PageKind(segment) {
	case KindTarget, KindFOVs, KindAnnotations:
		return PageKind(segment)
	}
	return KindNone
}

// IsEntity reports whether pages of this kind carry a cell line id.
func (k PageKind) IsEntity() bool {
	return k != KindNone
}

// State is the parsed form of one location. It is a value: a new State is
// produced for every navigation.
type State struct {
	Path    string // path without query
	Query   string // "?..." exactly as given, or ""
	Segment string // first path segment, "" at the root
	Kind    PageKind
	RawID   string // the :cellLineId parameter as it appeared in the path
	ID      identity.CellLineID
	View    View
	Params  map[string]string
}

// Location reassembles the path and query.
func (s State) Location() string {
	return s.Path + s.Query
}

// ShowsCellLine reports whether the matched view renders one cell line and
// so reports its id back. The targets table at /target does not, nor does
// a not-found page under an entity segment.
func (s State) ShowsCellLine() bool {
	switch s.View {
	case ViewTarget, ViewFOVs, ViewAnnotations:
		return true
	}
	return false
}

// Param returns a path parameter, or "".
func (s State) Param(name string) string {
	return s.Params[name]
}

// Parse splits a location into path and query and matches it against t.
// It never fails: unmatched paths yield ViewNotFound and KindNone unless the
// first segment itself names an entity page.
func Parse(t *Table, location string) State {
	path, query := SplitLocation(location)

	st := State{Path: path, Query: query}
	if segs := splitPath(path); len(segs) > 0 {
		st.Segment = segs[0]
	}
	st.Kind = KindOf(st.Segment)

	st.View, st.Params = t.Match(path)
	if st.Kind.IsEntity() {
		st.RawID = st.Params[ParamCellLineID]
		st.ID = identity.Decode(st.RawID)
	}
	return st
}

// SplitLocation separates "/a/b?x=1" into "/a/b" and "?x=1". A missing path
// becomes "/".
func SplitLocation(location string) (path, query string) {
	path = location
	if i := strings.IndexByte(location, '?'); i >= 0 {
		path, query = location[:i], location[i:]
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return path, query
}
