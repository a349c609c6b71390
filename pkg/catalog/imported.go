package catalog

import "sort"

// DependencyKind classifies an ImportedDependency.
type DependencyKind uint8

const (
	// SourceFile is a dependency on another authoring-format source file.
	SourceFile DependencyKind = iota
	// Sidecar is a dependency on a sidecar metadata file accompanying the
	// asset being imported.
	Sidecar
	// ReferencedResource is a dependency on another already-imported asset.
	ReferencedResource
)

// String returns a human-readable dependency kind name, for logging.
func (k DependencyKind) String() string {
	switch k {
	case SourceFile:
		return "source-file"
	case Sidecar:
		return "sidecar"
	case ReferencedResource:
		return "referenced-resource"
	default:
		return "unknown"
	}
}

// ImportedDependency is one entry in an ImportedAsset's dependency list.
type ImportedDependency struct {
	Path string
	Kind DependencyKind
}

// SortImportedDependencies sorts dependencies by kind, then by byte-exact
// path, giving importers a deterministic dependency order (§4.J).
func SortImportedDependencies(dependencies []ImportedDependency) {
	sort.Slice(dependencies, func(i, j int) bool {
		if dependencies[i].Kind != dependencies[j].Kind {
			return dependencies[i].Kind < dependencies[j].Kind
		}
		return dependencies[i].Path < dependencies[j].Path
	})
}

// ImportedSource describes where an imported asset's content came from:
// its authoring-format path, a content hash for change detection, and the
// source's last write time.
type ImportedSource struct {
	Path            string
	ContentHash     [32]byte
	LastWriteTimeMS int64
}

// ImportedAsset is the contract importers (out of scope for this module;
// see §1) are expected to emit. The core stores nothing from Payload: it
// uses VirtualPath to form the asset's URI, Source.ContentHash for change
// detection, and Dependencies for deterministic ordering.
type ImportedAsset struct {
	AssetKey     string
	VirtualPath  string
	AssetType    string
	Source       ImportedSource
	Dependencies []ImportedDependency
	Payload      []byte
}
