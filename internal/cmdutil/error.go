// Package cmdutil provides small CLI helpers shared by assetcatalog's
// subcommands: error/warning printing and a Cobra entry-point adapter for
// commands that want to return an error instead of calling os.Exit
// themselves.
package cmdutil

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func init() {
	// fatih/color already probes os.Stdout, but the two output streams used
	// by this package (color.Error writes to os.Stderr) need their own
	// check so redirected/piped stderr doesn't carry escape codes into logs.
	color.NoColor = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// Warning prints a warning message to standard error.
func Warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// Error prints an error message to standard error.
func Error(err error) {
	fmt.Fprintln(color.Error, color.RedString("Error:"), err)
}

// Fatal prints an error message to standard error and terminates the
// process with an error exit code.
func Fatal(err error) {
	Error(err)
	os.Exit(1)
}
