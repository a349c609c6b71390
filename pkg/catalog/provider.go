package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/assetgrid/catalog/pkg/assetquery"
)

// ErrStorage wraps an underlying IO/permission failure encountered while
// enumerating or reading a provider's backend.
var ErrStorage = errors.New("storage error")

// WrapStorageError wraps err as an ErrStorage with additional context, or
// returns nil if err is nil.
func WrapStorageError(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(ErrStorage, context+": "+err.Error())
}

// Provider is the two-operation surface every catalog backend exposes
// (§6.3): a cancelable query and a multicast change stream.
type Provider interface {
	// Query ensures the provider is initialized and returns the records
	// matching q, sorted by full URI string in byte order.
	Query(ctx context.Context, q assetquery.Query) ([]AssetRecord, error)
	// Changes returns the provider's change feed. Callers must Subscribe to
	// it and Close their subscription when done.
	Changes() *Changefeed
	// Close releases the provider's watcher and completes its change feed.
	Close() error
}
