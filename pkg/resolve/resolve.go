// Package resolve implements the resolver registry (§4.I): routes URI
// resolution to the provider-specific loader owning a mount point, and
// returns a typed loaded-asset handle or "not found".
package resolve

import (
	"context"

	"github.com/pkg/errors"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

// ErrNotFound indicates no resolver could produce an asset for a URI,
// either because no resolver declared it could resolve the mount or
// because the owning resolver could not locate the asset.
var ErrNotFound = errors.New("asset not found")

// AssetKind tags the concrete variant populated in a LoadedAsset.
type AssetKind uint8

const (
	// KindUnknown is the zero value; never returned from a successful
	// resolution.
	KindUnknown AssetKind = iota
	// KindGenerated identifies an asset produced by the generated resolver.
	KindGenerated
	// KindMaterial identifies a material asset loaded from disk.
	KindMaterial
	// KindGeometry identifies a geometry/mesh asset loaded from disk.
	KindGeometry
	// KindBinary identifies a disk asset with no recognized loader; its raw
	// bytes are still exposed via LoadedAsset.Payload.
	KindBinary
)

// String returns a human-readable asset kind name, for logging and CLI
// output.
func (k AssetKind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindGenerated:
		return "generated"
	case KindMaterial:
		return "material"
	case KindGeometry:
		return "geometry"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// LoadedAsset is a tagged union over the concrete runtime asset types. Per
// §3's invariant, every variant carries its source URI, its source form,
// and a derived structure sufficient for consumers; the core itself never
// interprets Payload, it only routes to the resolver that produced it.
type LoadedAsset struct {
	// Kind identifies which variant this value represents.
	Kind AssetKind
	// URI is the asset's source URI.
	URI *asseturi.URI
	// SourcePath is the absolute filesystem path the asset was loaded from,
	// populated only by disk-backed resolvers.
	SourcePath string
	// Payload is the asset's raw source bytes. The core is payload-agnostic
	// (§9): it never inspects Payload, it only carries it to the caller.
	Payload []byte
}

// Resolver is implemented by each backend capable of loading assets for one
// or more mounts.
type Resolver interface {
	// CanResolve reports whether this resolver owns the given mount.
	CanResolve(mount string) bool
	// Resolve loads the asset named by uri, or returns ErrNotFound if it
	// does not exist under this resolver's backend.
	Resolve(ctx context.Context, uri *asseturi.URI) (*LoadedAsset, error)
}

// Registry holds an ordered list of resolvers and delegates to the first
// one that declares it can resolve a URI's mount.
type Registry struct {
	resolvers []Resolver
}

// NewRegistry constructs a registry that tries resolvers in the given
// order.
func NewRegistry(resolvers ...Resolver) *Registry {
	return &Registry{resolvers: resolvers}
}

// Resolve routes uri to the first resolver that declares it can resolve
// uri's mount, and returns its result. If no resolver claims the mount, it
// returns ErrNotFound.
func (r *Registry) Resolve(ctx context.Context, uri *asseturi.URI) (*LoadedAsset, error) {
	for _, resolver := range r.resolvers {
		if resolver.CanResolve(uri.Mount()) {
			return resolver.Resolve(ctx, uri)
		}
	}
	return nil, ErrNotFound
}
