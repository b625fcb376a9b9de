package catalog

import (
	"fmt"
	"strings"

	"github.com/xrash/smetrics"
)

// DefaultThreshold is the minimum Jaro-Winkler similarity for a fuzzy match.
const DefaultThreshold = 0.8

// Standard Jaro-Winkler parameters.
const (
	boostThreshold = 0.7
	prefixSize     = 4
)

// Match describes how a query reached its record.
type Match int

const (
	// MatchNone means nothing matched.
	MatchNone Match = iota
	// MatchCanonical means the query was already the canonical name.
	MatchCanonical
	// MatchRedirect means the query matched under a different spelling or
	// case, and callers should point the client at the canonical name.
	MatchRedirect
)

func (m Match) String() string {
	switch m {
	case MatchCanonical:
		return "canonical"
	case MatchRedirect:
		return "redirect"
	}
	return "none"
}

// Similarity returns the Jaro-Winkler similarity of a and b in [0, 1].
func Similarity(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, boostThreshold, prefixSize)
}

// FindExact looks the query up case-insensitively.
func (s *Schemes) FindExact(query string) (SchemeRecord, bool) {
	rec, ok := s.records[strings.ToLower(query)]
	return rec, ok
}

// FindFuzzy returns the scheme whose name is most similar to the query, as
// long as the similarity is at least threshold. Names are compared in
// lexicographic order and the first of several equal scores wins.
func (s *Schemes) FindFuzzy(query string, threshold float64) (SchemeRecord, bool) {
	q := strings.ToLower(query)

	best, bestScore := "", -1.0
	for _, name := range s.names {
		score := Similarity(q, name)
		if score >= threshold && score > bestScore {
			best, bestScore = name, score
		}
	}
	if best == "" {
		return SchemeRecord{}, false
	}
	return s.records[best], true
}

// Resolve sanitizes the query and looks it up exactly, then fuzzily. The
// returned Match tells callers whether to serve the record directly or to
// redirect to its canonical name.
func (s *Schemes) Resolve(query string, threshold float64) (SchemeRecord, Match, error) {
	q := Sanitize(query)
	if q == "" {
		return SchemeRecord{}, MatchNone, fmt.Errorf("scheme %q: %w", query, ErrNotFound)
	}

	if rec, ok := s.FindExact(q); ok {
		if rec.Name == query {
			return rec, MatchCanonical, nil
		}
		return rec, MatchRedirect, nil
	}

	if rec, ok := s.FindFuzzy(q, threshold); ok {
		log.Debugf("fuzzy match %q -> %q", query, rec.Name)
		return rec, MatchRedirect, nil
	}

	return SchemeRecord{}, MatchNone, fmt.Errorf("scheme %q: %w", q, ErrNotFound)
}
