// Package must provides helpers for best-effort cleanup operations (closing
// files, removing temporaries) whose errors are worth logging but never
// worth propagating or panicking over.
package must

import (
	"fmt"
	"io"
	"os"

	"github.com/assetgrid/catalog/pkg/logging"
	"github.com/spf13/cobra"
)

// Fprint writes to w, logging (rather than returning) any error.
func Fprint(w io.Writer, logger *logging.Logger, a ...any) {
	s := fmt.Sprint(a...)
	n, err := fmt.Fprint(w, s)
	if err != nil {
		logger.Warnf("unable to write '%s': %s", s, err.Error())
		return
	}
	if n < len(s) {
		logger.Warnf("unable to write all of '%s'; wrote only %d of %d bytes", s, n, len(s))
	}
}

// Close closes c, logging (rather than returning) any error.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}

// OSRemove removes the named file, logging (rather than returning) any
// error.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warnf("unable to remove '%s': %s", name, err.Error())
	}
}

// CommandHelp prints help text for a Cobra command, logging (rather than
// returning) any error.
func CommandHelp(c *cobra.Command, logger *logging.Logger) {
	if err := c.Help(); err != nil {
		logger.Warnf("unable to print help: %s", err.Error())
	}
}

// Encode invokes an encoder's Encode method, logging (rather than
// returning) any error.
func Encode(e interface {
	Encode(e any) error
}, value any, logger *logging.Logger) {
	if err := e.Encode(value); err != nil {
		logger.Warnf("unable to encode %v: %s", value, err.Error())
	}
}

// Succeed logs a task failure without propagating it.
func Succeed(err error, task string, logger *logging.Logger) {
	if err != nil {
		logger.Warnf("unable to %s: %s", task, err.Error())
	}
}
