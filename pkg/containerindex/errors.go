package containerindex

import (
	"github.com/pkg/errors"
)

// ErrInvalidFormat indicates that a container index stream failed
// validation: bad magic, unsupported version, a truncated stream, a
// length-prefix overflow, or invalid UTF-8 in a virtual path.
var ErrInvalidFormat = errors.New("invalid container index format")

func invalidFormat(reason string) error {
	return errors.Wrap(ErrInvalidFormat, reason)
}

func invalidFormatf(format string, args ...interface{}) error {
	return errors.Wrap(ErrInvalidFormat, errors.Errorf(format, args...).Error())
}
