package identity

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// CanonicalPrefix prefixes cell line ids in application URLs.
	CanonicalPrefix = "CID"

	// SearchPrefix prefixes cell line ids in gene-name search payloads
	// (zero-padded to 11 digits by the API).
	SearchPrefix = "OPCT"

	canonicalWidth = 6
)

// CellLineID identifies a tagged cell line. The zero value is None.
type CellLineID struct {
	n     int
	valid bool
}

// None is the distinguished "no id" value.
var None = CellLineID{}

// New returns the id for n, or None if n is not positive.
func New(n int) CellLineID {
	if n <= 0 {
		return None
	}
	return CellLineID{n: n, valid: true}
}

// IsNone reports whether id carries no cell line.
func (id CellLineID) IsNone() bool {
	return !id.valid
}

// Int returns the numeric value and whether it is set.
func (id CellLineID) Int() (int, bool) {
	return id.n, id.valid
}

// String returns the canonical form, or "none".
func (id CellLineID) String() string {
	if !id.valid {
		return "none"
	}
	return Encode(id)
}

// Encode formats id as CID followed by six zero-padded digits.
// It returns "" for None; callers must not build URLs from that.
func Encode(id CellLineID) string {
	if !id.valid || id.n <= 0 {
		return ""
	}
	return fmt.Sprintf("%s%0*d", CanonicalPrefix, canonicalWidth, id.n)
}

// Decode parses a URL segment or search payload id. It accepts the CID
// form, the OPCT form and bare decimals. Like the web client's parseInt,
// only the leading run of digits counts, so "000367?x" decodes to 367.
func Decode(raw string) CellLineID {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, CanonicalPrefix):
		s = s[len(CanonicalPrefix):]
	case strings.HasPrefix(s, SearchPrefix):
		s = s[len(SearchPrefix):]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return None
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// overflow
		return None
	}
	return New(n)
}
