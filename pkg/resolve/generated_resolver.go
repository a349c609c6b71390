package resolve

import (
	"context"
	"strings"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

// GeneratedResolver resolves URIs against an immutable in-memory map of
// built-in assets, mirroring the generated catalog provider (§4.G).
type GeneratedResolver struct {
	mount string
	byURI map[asseturi.Fingerprint]*LoadedAsset
}

// NewGeneratedResolver constructs a resolver owning mount, serving assets.
func NewGeneratedResolver(mount string, assets map[string]*LoadedAsset) *GeneratedResolver {
	byURI := make(map[asseturi.Fingerprint]*LoadedAsset, len(assets))
	for relative, asset := range assets {
		uri, err := asseturi.Make(mount, relative)
		if err != nil {
			continue
		}
		asset.Kind = KindGenerated
		asset.URI = uri
		byURI[uri.Fingerprint()] = asset
	}
	return &GeneratedResolver{mount: mount, byURI: byURI}
}

// CanResolve implements Resolver.
func (g *GeneratedResolver) CanResolve(mount string) bool {
	return strings.EqualFold(g.mount, mount)
}

// Resolve implements Resolver.
func (g *GeneratedResolver) Resolve(_ context.Context, uri *asseturi.URI) (*LoadedAsset, error) {
	if asset, ok := g.byURI[uri.Fingerprint()]; ok {
		return asset, nil
	}
	return nil, ErrNotFound
}
