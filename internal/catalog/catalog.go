// Package catalog indexes scheme and template files on disk and resolves
// user-supplied names against them.
//
// Catalogs are built once and never modified afterwards, so a single instance
// can be shared by any number of goroutines without locking.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
)

// ErrNotFound is returned when a name matches nothing in a catalog.
var ErrNotFound = errors.New("not found")

// MaxNameLength is the longest canonical name Sanitize will produce.
const MaxNameLength = 255

var log = commonlog.GetLogger("base16sh.catalog")

// Sanitize drops every character outside [A-Za-z0-9_-] and truncates the
// result to MaxNameLength characters. Path separators and dots never survive,
// so a sanitized name is always a single path element.
func Sanitize(name string) string {
	var b strings.Builder
	n := 0
	for i := 0; i < len(name) && n < MaxNameLength; i++ {
		c := name[i]
		if isNameChar(c) {
			b.WriteByte(c)
			n++
		}
	}
	return b.String()
}

func isNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}

// canonical lower-cases and sanitizes a name for use as a catalog key.
func canonical(name string) string {
	return Sanitize(strings.ToLower(name))
}

// Order selects one of the scheme orderings.
type Order int

const (
	// OrderAlphabetical is the lexicographic order of canonical names.
	OrderAlphabetical Order = iota
	// OrderColor is the perceptual order computed from the palettes.
	OrderColor
)

func (o Order) String() string {
	if o == OrderColor {
		return "color"
	}
	return "name"
}

// ParseOrder parses the user-facing name of an ordering. The empty string
// selects OrderAlphabetical.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "name", "alpha", "alphabetical":
		return OrderAlphabetical, nil
	case "color", "colour", "perceptual":
		return OrderColor, nil
	}
	return OrderAlphabetical, fmt.Errorf("unknown order %q (valid: name, color)", s)
}

// neighbors returns the entries either side of pos in list.
func neighbors(list []string, pos int) (prev, next string) {
	if pos > 0 {
		prev = list[pos-1]
	}
	if pos < len(list)-1 {
		next = list[pos+1]
	}
	return prev, next
}

// positions maps each entry of list to its index.
func positions(list []string) map[string]int {
	m := make(map[string]int, len(list))
	for i, name := range list {
		m[name] = i
	}
	return m
}
