package assetquery

import (
	"testing"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

func mustURI(t *testing.T, mount, relative string) *asseturi.URI {
	t.Helper()
	u, err := asseturi.Make(mount, relative)
	if err != nil {
		t.Fatal("Make failed:", err)
	}
	return u
}

// TestScopeChildrenVsDescendants exercises end-to-end scenario 2 from the
// specification.
func TestScopeChildrenVsDescendants(t *testing.T) {
	x := mustURI(t, "C", "A/B/x")
	y := mustURI(t, "C", "A/y")
	z := mustURI(t, "C", "A/B/C/z")
	root := mustURI(t, "C", "A")

	children := Scope{Roots: []*asseturi.URI{root}, Traversal: TraversalChildren}
	if Matches(children, x) {
		t.Error("x should not match Children")
	}
	if !Matches(children, y) {
		t.Error("y should match Children")
	}
	if Matches(children, z) {
		t.Error("z should not match Children")
	}

	descendants := Scope{Roots: []*asseturi.URI{root}, Traversal: TraversalDescendants}
	for _, u := range []*asseturi.URI{x, y, z} {
		if !Matches(descendants, u) {
			t.Error("expected Descendants match for", u.String())
		}
	}

	self := Scope{Roots: []*asseturi.URI{root}, Traversal: TraversalSelf}
	for _, u := range []*asseturi.URI{x, y, z, root} {
		expected := u.Equal(root)
		if Matches(self, u) != expected {
			t.Errorf("Self match mismatch for %s: got %v, want %v", u.String(), Matches(self, u), expected)
		}
	}
}

func TestScopeAllIgnoresRoots(t *testing.T) {
	u := mustURI(t, "C", "A/y")
	scope := Scope{Traversal: TraversalAll}
	if !Matches(scope, u) {
		t.Error("expected All to match regardless of empty roots")
	}
}

func TestScopeEmptyRootsMatchesNothing(t *testing.T) {
	u := mustURI(t, "C", "A/y")
	for _, traversal := range []Traversal{TraversalSelf, TraversalChildren, TraversalDescendants} {
		scope := Scope{Traversal: traversal}
		if Matches(scope, u) {
			t.Errorf("expected traversal %s with no roots to match nothing", traversal)
		}
	}
}

func TestScopeNilRootSkipped(t *testing.T) {
	u := mustURI(t, "C", "A/y")
	root := mustURI(t, "C", "A")
	scope := Scope{Roots: []*asseturi.URI{nil, root}, Traversal: TraversalChildren}
	if !Matches(scope, u) {
		t.Error("expected a nil root entry to be skipped, not to break matching")
	}
}

func TestScopeRootDenotesWholeMount(t *testing.T) {
	root := mustURI(t, "Engine", "")
	topLevel := mustURI(t, "Engine", "Cube")
	nested := mustURI(t, "Engine", "Meshes/Cube")

	descendants := Scope{Roots: []*asseturi.URI{root}, Traversal: TraversalDescendants}
	if !Matches(descendants, topLevel) || !Matches(descendants, nested) {
		t.Error("expected empty-relative root to match everything under the mount")
	}
	if Matches(descendants, root) {
		t.Error("a root denoting the whole mount should not match itself under Descendants")
	}

	children := Scope{Roots: []*asseturi.URI{root}, Traversal: TraversalChildren}
	if !Matches(children, topLevel) {
		t.Error("expected top-level asset to match Children of whole-mount root")
	}
	if Matches(children, nested) {
		t.Error("expected nested asset to not match Children of whole-mount root")
	}
}

// TestDescendantsSupersetOfChildren verifies the quantified invariant: every
// URI matched by Children(r) is also matched by Descendants(r).
func TestDescendantsSupersetOfChildren(t *testing.T) {
	root := mustURI(t, "C", "A")
	candidates := []*asseturi.URI{
		mustURI(t, "C", "A/y"),
		mustURI(t, "C", "A/B/x"),
		mustURI(t, "C", "A/B/C/z"),
		mustURI(t, "D", "A/y"),
	}
	children := Scope{Roots: []*asseturi.URI{root}, Traversal: TraversalChildren}
	descendants := Scope{Roots: []*asseturi.URI{root}, Traversal: TraversalDescendants}
	for _, u := range candidates {
		if Matches(children, u) && !Matches(descendants, u) {
			t.Errorf("%s matched Children but not Descendants", u.String())
		}
	}
}
