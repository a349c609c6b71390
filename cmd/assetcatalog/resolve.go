package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/assetgrid/catalog/pkg/asseturi"
	"github.com/assetgrid/catalog/pkg/resolve"

	"github.com/assetgrid/catalog/internal/cmdutil"
)

var resolveConfiguration struct {
	config string
	root   string
}

var resolveCommand = &cobra.Command{
	Use:   "resolve <uri>",
	Short: "Resolve a URI to a loaded asset",
	Args:  cobra.ExactArgs(1),
	Run:   cmdutil.Mainify(resolveMain),
}

func init() {
	flags := resolveCommand.Flags()
	flags.StringVar(&resolveConfiguration.config, "config", "", "Path to a catalog configuration file (accepted but not read by resolve)")
	flags.StringVar(&resolveConfiguration.root, "filesystem-root", "", "Disk root used to resolve filesystem-backed mounts")
}

func resolveMain(_ *cobra.Command, arguments []string) error {
	uri, err := asseturi.Parse(arguments[0])
	if err != nil {
		return err
	}

	registry := resolve.NewRegistry(
		resolve.NewGeneratedResolver("Generated", defaultGeneratedAssets()),
		resolve.NewFilesystemResolver(uri.Mount(), resolveConfiguration.root),
	)

	asset, err := registry.Resolve(context.Background(), uri)
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s  %s\n", asset.URI.String(), asset.Kind, humanize.Bytes(uint64(len(asset.Payload))))
	return nil
}

// defaultGeneratedAssets supplies empty payloads for the generated
// resolver's built-in set; a real deployment would populate these with its
// actual primitive mesh and default material data.
func defaultGeneratedAssets() map[string]*resolve.LoadedAsset {
	return map[string]*resolve.LoadedAsset{
		"Meshes/Cube":       {},
		"Meshes/Sphere":     {},
		"Meshes/Plane":      {},
		"Materials/Default": {},
	}
}
