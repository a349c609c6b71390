package fsprovider

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// isIncluded reports whether relativePath (slash-separated, relative to the
// provider's root) should be part of the index: no path segment may begin
// with "." (hidden) or contain "..", and, if filter is non-empty, the path
// must match it as a doublestar glob.
func isIncluded(relativePath, filter string) bool {
	for _, segment := range strings.Split(relativePath, "/") {
		if segment == "" {
			continue
		}
		if strings.HasPrefix(segment, ".") || strings.Contains(segment, "..") {
			return false
		}
	}
	if filter == "" {
		return true
	}
	matched, err := doublestar.Match(filter, relativePath)
	return err == nil && matched
}
