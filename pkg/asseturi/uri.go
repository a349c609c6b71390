// Package asseturi implements the canonical asset://<Mount>/<RelativePath>
// identifier scheme used to name content across catalog providers.
//
// The scheme tolerates two wire forms - the canonical authority-less form
// "asset:///Mount/Relative/Path" and the back-compat authority-bearing form
// "asset://Mount/Relative/Path" - and treats them as equal once the mount
// and relative path have been extracted. Mount comparison is
// case-insensitive; the relative path is byte-exact.
package asseturi

import (
	"net/url"
	"strings"
)

// Scheme is the URI scheme literal recognized by this package.
const Scheme = "asset"

// URI is a parsed asset identifier. The zero value is not a valid URI; use
// Make or Parse to construct one.
type URI struct {
	// mount is the authority token naming the content origin, stored with
	// its original case. Comparisons treat it case-insensitively.
	mount string
	// relative is the slash-separated path beneath the mount, stored
	// byte-exact.
	relative string
}

// Make constructs a URI from a mount and a relative path. The relative path
// is normalized: backslashes are converted to forward slashes and any
// leading slashes are trimmed. Make fails with ErrInvalidPath if mount is
// empty.
func Make(mount, relative string) (*URI, error) {
	if mount == "" {
		return nil, invalid("empty mount")
	}
	return &URI{
		mount:    mount,
		relative: normalizeRelative(relative),
	}, nil
}

// normalizeRelative converts backslashes to forward slashes and trims
// leading slashes, per the §4.A normalization rule.
func normalizeRelative(relative string) string {
	relative = strings.ReplaceAll(relative, `\`, "/")
	return strings.TrimLeft(relative, "/")
}

// Parse parses a raw URI string in either the authority-bearing or
// authority-less form. It fails with ErrInvalidPath if the string is not a
// well-formed asset URI.
func Parse(raw string) (*URI, error) {
	if raw == "" {
		return nil, invalid("empty URI")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, invalid("malformed URI: " + err.Error())
	}
	if !strings.EqualFold(parsed.Scheme, Scheme) {
		return nil, invalid("unsupported scheme '" + parsed.Scheme + "'")
	}

	var mount, relative string
	if parsed.Host != "" {
		// Back-compat authority-bearing form: asset://Mount/Relative.
		mount, err = url.PathUnescape(parsed.Host)
		if err != nil {
			return nil, invalid("malformed mount authority: " + err.Error())
		}
		relative = strings.TrimPrefix(parsed.Path, "/")
	} else {
		// Canonical authority-less form: asset:///Mount/Relative.
		path := parsed.Path
		if !strings.HasPrefix(path, "/") {
			return nil, invalid("missing mount segment")
		}
		path = path[1:]
		if idx := strings.IndexByte(path, '/'); idx == -1 {
			mount = path
		} else {
			mount, relative = path[:idx], path[idx+1:]
		}
	}

	if mount == "" {
		return nil, invalid("empty mount")
	}

	return &URI{mount: mount, relative: relative}, nil
}

// Mount returns the URI's mount token, unescaped, with its original case.
func (u *URI) Mount() string {
	return u.mount
}

// Relative returns the URI's relative path, unescaped, case-preserved.
func (u *URI) Relative() string {
	return u.relative
}

// VirtualPath returns the "/<Mount>/<Relative>" form used by the container
// index codec.
func (u *URI) VirtualPath() string {
	if u.relative == "" {
		return "/" + u.mount
	}
	return "/" + u.mount + "/" + u.relative
}

// String formats the URI in canonical authority-less form,
// "asset:///Mount/Relative", percent-encoding any characters that would
// otherwise be ambiguous in a URI path (such as spaces in the mount token).
func (u *URI) String() string {
	path := "/" + u.mount
	if u.relative != "" {
		path += "/" + u.relative
	}
	formatted := &url.URL{Scheme: Scheme, Path: path}
	return formatted.String()
}

// Equal reports whether two URIs refer to the same logical asset: the
// scheme is always equal (both are parsed asset URIs), mounts are compared
// case-insensitively, and relative paths are compared byte-exact.
func (u *URI) Equal(other *URI) bool {
	if u == nil || other == nil {
		return u == other
	}
	return strings.EqualFold(u.mount, other.mount) && u.relative == other.relative
}

// Fingerprint is a comparable, hashable value that two URIs share if and
// only if they refer to the same logical asset. It is used as a map key for
// deduplication across providers.
type Fingerprint struct {
	mountFold string
	relative  string
}

// Fingerprint computes the URI's deduplication key: (scheme_ci, mount_ci,
// relative_bytes). The scheme is omitted from the struct since this package
// only ever produces "asset" URIs, but its case-insensitive normalization is
// implied by construction.
func (u *URI) Fingerprint() Fingerprint {
	return Fingerprint{
		mountFold: strings.ToLower(u.mount),
		relative:  u.relative,
	}
}
