package containerindex

import (
	"strings"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

// URIForVirtualPath maps a container entry's virtual path ("/Mount/Relative")
// to an asset URI. It rejects paths that do not start with "/" or that lack
// an inner "/" separating the mount from a relative path.
//
// This transform commutes with asseturi.Make: for any mount M and relative
// path P, URIForVirtualPath("/"+M+"/"+P) is fingerprint-equal to
// asseturi.Make(M, P).
func URIForVirtualPath(virtualPath string) (*asseturi.URI, error) {
	if !strings.HasPrefix(virtualPath, "/") {
		return nil, invalidFormat("virtual path must start with '/'")
	}
	trimmed := virtualPath[1:]
	idx := strings.IndexByte(trimmed, '/')
	if idx == -1 {
		return nil, invalidFormat("virtual path has no relative path segment")
	}
	mount, relative := trimmed[:idx], trimmed[idx+1:]
	return asseturi.Make(mount, relative)
}

// VirtualPathForURI formats a URI in the container index's virtual path
// form. It is equivalent to (*asseturi.URI).VirtualPath.
func VirtualPathForURI(uri *asseturi.URI) string {
	return uri.VirtualPath()
}
