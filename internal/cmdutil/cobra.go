package cmdutil

import (
	"github.com/spf13/cobra"
)

// Mainify wraps a Cobra entry point that returns an error, producing a
// standard Cobra Run function. This lets subcommands rely on defer-based
// cleanup, which a direct os.Exit call would skip.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			Fatal(err)
		}
	}
}
