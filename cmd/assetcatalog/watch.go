package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/assetgrid/catalog/pkg/logging"

	"github.com/assetgrid/catalog/internal/cmdutil"
)

var watchConfiguration struct {
	config string
}

var watchCommand = &cobra.Command{
	Use:   "watch",
	Short: "Print catalog change events as they arrive",
	Args:  cobra.NoArgs,
	Run:   cmdutil.Mainify(watchMain),
}

func init() {
	flags := watchCommand.Flags()
	flags.StringVar(&watchConfiguration.config, "config", "", "Path to a catalog configuration file")
}

func watchMain(_ *cobra.Command, _ []string) error {
	c, err := buildCatalog(watchConfiguration.config, logging.RootLogger)
	if err != nil {
		return err
	}
	defer c.Close()

	sub := c.Changes().Subscribe()
	defer sub.Close()

	fmt.Printf("watching (subscription %s)\n", sub.ID())

	last := time.Now()
	for change := range sub.Events() {
		now := time.Now()
		elapsed := humanize.RelTime(last, now, "ago", "from now")
		last = now

		switch change.Kind.String() {
		case "removed":
			color.Red("%-10s %s (%s)\n", change.Kind, change.URI.String(), elapsed)
		case "overflow":
			color.Yellow("%-10s subscriber fell behind, some events were dropped\n", change.Kind)
		case "relocated":
			fmt.Printf("%-10s %s -> %s (%s)\n", change.Kind, change.PreviousURI.String(), change.URI.String(), elapsed)
		default:
			fmt.Printf("%-10s %s (%s)\n", change.Kind, change.URI.String(), elapsed)
		}
	}

	return nil
}
