// Package catalogconfig defines the §6.5 provider configuration records and
// loads them from YAML via pkg/encoding, the way the teacher's project and
// session configuration is loaded.
package catalogconfig

import (
	"github.com/assetgrid/catalog/pkg/catalog/containerprovider"
	"github.com/assetgrid/catalog/pkg/catalog/fsprovider"
	"github.com/assetgrid/catalog/pkg/encoding"
	"github.com/assetgrid/catalog/pkg/logging"
)

// FilesystemProviderConfig configures one filesystem catalog provider.
type FilesystemProviderConfig struct {
	MountPoint     string `yaml:"mountPoint"`
	RootFolderPath string `yaml:"rootFolderPath"`
	WatcherFilter  string `yaml:"watcherFilter,omitempty"`
}

// ToProviderConfig converts this record into fsprovider.Config.
func (c FilesystemProviderConfig) ToProviderConfig() fsprovider.Config {
	return fsprovider.Config{
		MountPoint:     c.MountPoint,
		RootFolderPath: c.RootFolderPath,
		WatcherFilter:  c.WatcherFilter,
	}
}

// ContainerProviderConfig configures one container-index catalog provider.
type ContainerProviderConfig struct {
	CookedRootFolderPath string `yaml:"cookedRootFolderPath"`
	IndexFileName        string `yaml:"indexFileName,omitempty"`
	WatcherFilter        string `yaml:"watcherFilter,omitempty"`
	// Authority, if set, overrides the mount encoded in the index's virtual
	// paths for every URI this provider produces.
	Authority string `yaml:"authority,omitempty"`
}

// ToProviderConfig converts this record into containerprovider.Config.
func (c ContainerProviderConfig) ToProviderConfig() containerprovider.Config {
	return containerprovider.Config{
		CookedRootFolderPath: c.CookedRootFolderPath,
		IndexFileName:        c.IndexFileName,
		WatcherFilter:        c.WatcherFilter,
		Authority:            c.Authority,
	}
}

// CatalogConfig is the top-level configuration file shape: the set of
// filesystem and container providers that make up a composite catalog.
type CatalogConfig struct {
	Filesystem []FilesystemProviderConfig `yaml:"filesystem,omitempty"`
	Container  []ContainerProviderConfig  `yaml:"container,omitempty"`
}

// Load reads and decodes a catalog configuration file at path.
func Load(path string) (*CatalogConfig, error) {
	var config CatalogConfig
	if err := encoding.LoadAndUnmarshalYAML(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save marshals config as YAML and writes it atomically to path.
func Save(path string, config *CatalogConfig, logger *logging.Logger) error {
	return encoding.MarshalAndSaveYAML(path, config, logger)
}
