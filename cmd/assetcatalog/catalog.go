package main

import (
	"github.com/assetgrid/catalog/pkg/catalog"
	"github.com/assetgrid/catalog/pkg/catalog/composite"
	"github.com/assetgrid/catalog/pkg/catalog/containerprovider"
	"github.com/assetgrid/catalog/pkg/catalog/fsprovider"
	"github.com/assetgrid/catalog/pkg/catalog/genprovider"
	"github.com/assetgrid/catalog/pkg/catalogconfig"
	"github.com/assetgrid/catalog/pkg/logging"
)

// buildCatalog loads the configuration file at path (if non-empty) and
// constructs a composite catalog over its declared providers plus the
// built-in generated provider.
func buildCatalog(path string, logger *logging.Logger) (*composite.Catalog, error) {
	var config catalogconfig.CatalogConfig
	if path != "" {
		loaded, err := catalogconfig.Load(path)
		if err != nil {
			return nil, err
		}
		config = *loaded
	}

	providers := make([]catalog.Provider, 0, len(config.Filesystem)+len(config.Container)+1)

	for _, fsConfig := range config.Filesystem {
		providers = append(providers, fsprovider.New(fsConfig.ToProviderConfig(), logger))
	}
	for _, containerConfig := range config.Container {
		providers = append(providers, containerprovider.New(containerConfig.ToProviderConfig(), logger))
	}

	generated, err := genprovider.New(nil)
	if err != nil {
		return nil, err
	}
	providers = append(providers, generated)

	return composite.New(providers...), nil
}
