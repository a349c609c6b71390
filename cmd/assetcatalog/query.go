package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assetgrid/catalog/pkg/asseturi"
	"github.com/assetgrid/catalog/pkg/assetquery"
	"github.com/assetgrid/catalog/pkg/logging"

	"github.com/assetgrid/catalog/internal/cmdutil"
)

var queryConfiguration struct {
	config     string
	traversal  string
	searchText string
}

var queryCommand = &cobra.Command{
	Use:   "query [<root-uri>]",
	Short: "Query the catalog for matching assets",
	Args:  cobra.MaximumNArgs(1),
	Run:   cmdutil.Mainify(queryMain),
}

func init() {
	flags := queryCommand.Flags()
	flags.StringVar(&queryConfiguration.config, "config", "", "Path to a catalog configuration file")
	flags.StringVar(&queryConfiguration.traversal, "traversal", "all", "Traversal mode: all, self, children, descendants")
	flags.StringVar(&queryConfiguration.searchText, "search", "", "Case-insensitive substring filter")
}

func queryMain(_ *cobra.Command, arguments []string) error {
	scope, err := parseScope(arguments, queryConfiguration.traversal)
	if err != nil {
		return err
	}

	c, err := buildCatalog(queryConfiguration.config, logging.RootLogger)
	if err != nil {
		return err
	}
	defer c.Close()

	records, err := c.Query(context.Background(), assetquery.Query{
		Scope:      scope,
		SearchText: queryConfiguration.searchText,
	})
	if err != nil {
		return err
	}

	for _, record := range records {
		fmt.Println(record.URI.String())
	}

	return nil
}

// parseScope builds an assetquery.Scope from the query command's arguments:
// an optional root URI and a traversal mode name.
func parseScope(arguments []string, traversalName string) (assetquery.Scope, error) {
	if len(arguments) == 0 {
		return assetquery.All(), nil
	}

	root, err := asseturi.Parse(arguments[0])
	if err != nil {
		return assetquery.Scope{}, err
	}

	traversal, err := parseTraversal(traversalName)
	if err != nil {
		return assetquery.Scope{}, err
	}
	if traversal == assetquery.TraversalAll {
		return assetquery.All(), nil
	}

	return assetquery.Scope{Roots: []*asseturi.URI{root}, Traversal: traversal}, nil
}

func parseTraversal(name string) (assetquery.Traversal, error) {
	switch name {
	case "all", "":
		return assetquery.TraversalAll, nil
	case "self":
		return assetquery.TraversalSelf, nil
	case "children":
		return assetquery.TraversalChildren, nil
	case "descendants":
		return assetquery.TraversalDescendants, nil
	default:
		return 0, fmt.Errorf("unknown traversal mode %q", name)
	}
}
