package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assetgrid/catalog/pkg/assetcat"
	"github.com/assetgrid/catalog/pkg/logging"
	"github.com/assetgrid/catalog/pkg/must"

	"github.com/assetgrid/catalog/internal/cmdutil"
)

func rootMain(command *cobra.Command, _ []string) {
	if rootConfiguration.version {
		fmt.Println(assetcat.Version)
		return
	}
	must.CommandHelp(command, logging.RootLogger)
}

var rootCommand = &cobra.Command{
	Use:           "assetcatalog",
	Short:         "assetcatalog queries, watches, and resolves assets across catalog providers",
	Run:           rootMain,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var rootConfiguration struct {
	version  bool
	logLevel string
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "info", "Log level: disabled, error, warn, info, debug, trace")

	flags = rootCommand.Flags()
	flags.BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")

	cobra.EnableCommandSorting = false
	cobra.OnInitialize(func() {
		level, ok := logging.NameToLevel(rootConfiguration.logLevel)
		if !ok {
			cmdutil.Warning(fmt.Sprintf("unknown log level %q, leaving at %s", rootConfiguration.logLevel, logging.RootLogger.Level()))
			return
		}
		logging.RootLogger.SetLevel(level)
	})

	rootCommand.AddCommand(
		queryCommand,
		watchCommand,
		resolveCommand,
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		cmdutil.Fatal(err)
	}
}
