package resolve

import (
	"context"
	"strings"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

// ContainerResolver declares ownership of a mount backed by a packaged
// container but does not yet load payloads from it. Payload extraction
// requires decoding the container's payload section (beyond the index
// table §4.C already reads), which is not implemented; until it is, this
// resolver always reports ErrNotFound, per §4.I's "future/stub" contract.
type ContainerResolver struct {
	mount string
}

// NewContainerResolver constructs a stub resolver owning mount.
func NewContainerResolver(mount string) *ContainerResolver {
	return &ContainerResolver{mount: mount}
}

// CanResolve implements Resolver.
func (c *ContainerResolver) CanResolve(mount string) bool {
	return strings.EqualFold(c.mount, mount)
}

// Resolve implements Resolver. Always ErrNotFound until payload extraction
// is implemented.
func (c *ContainerResolver) Resolve(_ context.Context, _ *asseturi.URI) (*LoadedAsset, error) {
	return nil, ErrNotFound
}
