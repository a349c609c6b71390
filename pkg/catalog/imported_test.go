package catalog

import "testing"

func TestSortImportedDependenciesByKindThenPath(t *testing.T) {
	deps := []ImportedDependency{
		{Path: "z.txt", Kind: SourceFile},
		{Path: "a.txt", Kind: ReferencedResource},
		{Path: "a.txt", Kind: SourceFile},
		{Path: "b.meta", Kind: Sidecar},
	}
	SortImportedDependencies(deps)

	want := []ImportedDependency{
		{Path: "a.txt", Kind: SourceFile},
		{Path: "z.txt", Kind: SourceFile},
		{Path: "b.meta", Kind: Sidecar},
		{Path: "a.txt", Kind: ReferencedResource},
	}
	for i := range want {
		if deps[i] != want[i] {
			t.Fatalf("at %d: got %+v, want %+v", i, deps[i], want[i])
		}
	}
}
