package assetquery

import (
	"strings"
)

// Query is what a provider's query operation accepts: a Scope restricting
// which URIs are considered, plus optional provider-defined search text.
type Query struct {
	// Scope restricts which URIs are considered.
	Scope Scope
	// SearchText, if non-empty, further restricts matches. Its exact
	// semantics are provider-defined; the reference semantics implemented
	// by the providers in this module are a case-insensitive substring
	// match against the URI string (and, for filesystem-backed providers,
	// also the derived name and mount).
	SearchText string
}

// MatchesSearchText reports whether candidate contains SearchText using a
// case-insensitive substring match. An empty SearchText always matches.
func (q Query) MatchesSearchText(candidate string) bool {
	if q.SearchText == "" {
		return true
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(q.SearchText))
}

// MatchesAnySearchText reports whether any candidate contains SearchText,
// per MatchesSearchText. It is a convenience for providers that match search
// text against multiple fields (e.g. URI, derived name, and mount).
func (q Query) MatchesAnySearchText(candidates ...string) bool {
	if q.SearchText == "" {
		return true
	}
	for _, candidate := range candidates {
		if q.MatchesSearchText(candidate) {
			return true
		}
	}
	return false
}
