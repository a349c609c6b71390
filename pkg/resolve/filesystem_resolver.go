package resolve

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

// FilesystemResolver maps a URI to a disk path under a configured source
// root and selects a loader by extension.
type FilesystemResolver struct {
	mount string
	root  string
}

// NewFilesystemResolver constructs a resolver owning mount, loading assets
// from beneath root.
func NewFilesystemResolver(mount, root string) *FilesystemResolver {
	return &FilesystemResolver{mount: mount, root: root}
}

// CanResolve implements Resolver.
func (f *FilesystemResolver) CanResolve(mount string) bool {
	return strings.EqualFold(f.mount, mount)
}

// Resolve implements Resolver: it reads the file at root/relative and tags
// the result by extension.
func (f *FilesystemResolver) Resolve(ctx context.Context, uri *asseturi.URI) (*LoadedAsset, error) {
	path := filepath.Join(f.root, filepath.FromSlash(uri.Relative()))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &LoadedAsset{
		Kind:       kindForExtension(filepath.Ext(path)),
		URI:        uri,
		SourcePath: path,
		Payload:    data,
	}, nil
}

// kindForExtension guesses an asset's kind from its file extension. Types
// the core does not recognize are still returned, tagged KindBinary, since
// resolution failure is reserved for "does not exist" (§3, §7).
func kindForExtension(ext string) AssetKind {
	switch strings.ToLower(ext) {
	case ".omat", ".mat":
		return KindMaterial
	case ".omesh", ".mesh", ".gltf", ".glb":
		return KindGeometry
	default:
		return KindBinary
	}
}
