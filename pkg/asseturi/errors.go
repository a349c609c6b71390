package asseturi

import (
	"github.com/pkg/errors"
)

// ErrInvalidPath indicates that a URI, mount, or relative path was
// malformed. It wraps errors.New so that callers can use errors.Is against
// the sentinel while still getting a descriptive message via wrapping.
var ErrInvalidPath = errors.New("invalid asset path")

// invalid wraps ErrInvalidPath with additional context.
func invalid(reason string) error {
	return errors.Wrap(ErrInvalidPath, reason)
}
