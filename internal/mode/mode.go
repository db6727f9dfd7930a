// Package mode holds the session-wide audience mode.
//
// The default is fixed at build time:
//
//	go build -ldflags "-X github.com/vidyasagar/cellsurf/internal/mode.Default=private"
//
// A private build may be narrowed to public with ?mode=public in the start
// URL. A public build ignores the parameter, so a URL can never escalate a
// public deployment to private.
package mode

import (
	"net/url"
	"strings"
)

// Mode selects which routes and data the session can reach.
type Mode string

const (
	Public  Mode = "public"
	Private Mode = "private"
)

// QueryParam is the start-URL parameter that may override a private default.
const QueryParam = "mode"

// Default is the build-time default mode.
var Default = string(Public)

// Parse maps a string to a Mode. Unknown values are reported as not ok.
func Parse(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Public:
		return Public, true
	case Private:
		return Private, true
	}
	return "", false
}

// Resolve computes the effective mode from the build default and the start
// URL's query string.
func Resolve(def Mode, query url.Values) Mode {
	if def != Private {
		return Public
	}
	if v := query.Get(QueryParam); v != "" {
		if m, ok := Parse(v); ok {
			return m
		}
	}
	return Private
}

// ResolveDefault resolves against the build-time Default.
func ResolveDefault(query url.Values) Mode {
	def, ok := Parse(Default)
	if !ok {
		def = Public
	}
	return Resolve(def, query)
}

// PublicationReadyOnly reports whether API lookups must be restricted to
// publication-ready cell lines.
func (m Mode) PublicationReadyOnly() bool {
	return m != Private
}

// IsPrivate reports whether private routes are reachable.
func (m Mode) IsPrivate() bool {
	return m == Private
}

func (m Mode) String() string {
	return string(m)
}
