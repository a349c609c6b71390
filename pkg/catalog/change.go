package catalog

import (
	"github.com/assetgrid/catalog/pkg/asseturi"
)

// ChangeKind identifies the kind of mutation an AssetChange describes.
type ChangeKind uint8

const (
	// Added indicates a record newly appeared in a provider's store.
	Added ChangeKind = iota
	// Removed indicates a record left a provider's store.
	Removed
	// Updated indicates a record already in the store was modified.
	Updated
	// Relocated indicates a record moved from one URI to another within the
	// same provider.
	Relocated
	// Overflow is not a store mutation; it signals a subscriber that some
	// events were dropped because it fell behind. Any Changefeed can deliver
	// it, including each provider's own feed and the composite catalog's
	// merged one.
	Overflow
)

// String returns a human-readable change kind name, for logging.
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	case Relocated:
		return "relocated"
	case Overflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// AssetChange is a single mutation emitted on a provider's change stream.
// PreviousURI is populated only for Relocated.
type AssetChange struct {
	Kind        ChangeKind
	URI         *asseturi.URI
	PreviousURI *asseturi.URI
}
