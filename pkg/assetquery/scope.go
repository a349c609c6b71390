// Package assetquery defines the query and scope-matching vocabulary that
// catalog providers use to answer queries: a Scope restricts which URIs are
// considered, and a Query pairs a Scope with optional provider-defined
// search text.
package assetquery

import (
	"strings"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

// Traversal selects how a Scope's roots restrict matching URIs.
type Traversal int

const (
	// TraversalAll matches any URI; Roots is ignored.
	TraversalAll Traversal = iota
	// TraversalSelf matches a URI that is byte-exact equal to one of the
	// roots.
	TraversalSelf
	// TraversalChildren matches a URI one path segment beneath one of the
	// roots.
	TraversalChildren
	// TraversalDescendants matches a URI any number of path segments
	// beneath one of the roots.
	TraversalDescendants
)

// String returns a human-readable traversal name, primarily for logging and
// CLI flag parsing.
func (t Traversal) String() string {
	switch t {
	case TraversalAll:
		return "all"
	case TraversalSelf:
		return "self"
	case TraversalChildren:
		return "children"
	case TraversalDescendants:
		return "descendants"
	default:
		return "unknown"
	}
}

// Scope restricts which URIs a query considers. With TraversalAll, Roots is
// ignored and every URI matches. With any other traversal, an empty or
// entirely-nil Roots slice matches nothing.
type Scope struct {
	// Roots is the set of URIs that traversal is relative to. Nil entries
	// are skipped rather than treated as errors.
	Roots []*asseturi.URI
	// Traversal selects the matching relationship between Roots and
	// candidate URIs.
	Traversal Traversal
}

// All returns a scope that matches every URI.
func All() Scope {
	return Scope{Traversal: TraversalAll}
}

// Matches reports whether uri falls within scope, per the traversal
// semantics documented on Traversal.
func Matches(scope Scope, uri *asseturi.URI) bool {
	if uri == nil {
		return false
	}
	if scope.Traversal == TraversalAll {
		return true
	}
	for _, root := range scope.Roots {
		if root == nil {
			continue
		}
		if matchesRoot(scope.Traversal, root, uri) {
			return true
		}
	}
	return false
}

// matchesRoot reports whether uri matches a single root under the given
// traversal mode.
func matchesRoot(traversal Traversal, root, uri *asseturi.URI) bool {
	if !strings.EqualFold(root.Mount(), uri.Mount()) {
		return false
	}
	switch traversal {
	case TraversalSelf:
		return root.Relative() == uri.Relative()
	case TraversalDescendants:
		_, ok := remainderBeneathRoot(uri.Relative(), root.Relative())
		return ok
	case TraversalChildren:
		remainder, ok := remainderBeneathRoot(uri.Relative(), root.Relative())
		return ok && !strings.Contains(remainder, "/")
	default:
		return false
	}
}

// remainderBeneathRoot computes the portion of relative that lies beneath
// rootRelative at a folder boundary, treating an empty rootRelative as
// denoting the whole mount. It reports false if relative does not lie
// strictly beneath rootRelative (i.e. is not a strict proper prefix match).
func remainderBeneathRoot(relative, rootRelative string) (string, bool) {
	// The root's relative path is conceptually suffixed with a trailing
	// slash to mark a folder boundary; tolerate callers who already
	// included one.
	rootRelative = strings.TrimSuffix(rootRelative, "/")

	if rootRelative == "" {
		if relative == "" {
			return "", false
		}
		return relative, true
	}

	prefix := rootRelative + "/"
	if !strings.HasPrefix(relative, prefix) {
		return "", false
	}
	remainder := relative[len(prefix):]
	if remainder == "" {
		return "", false
	}
	return remainder, true
}
