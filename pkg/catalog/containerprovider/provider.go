// Package containerprovider implements the container-index catalog
// provider (§4.F): an in-memory index built by decoding a binary container
// index file, kept current by watching that one file and reloading-and-
// diffing it on change.
package containerprovider

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/assetgrid/catalog/pkg/assetquery"
	"github.com/assetgrid/catalog/pkg/catalog"
	"github.com/assetgrid/catalog/pkg/containerindex"
	"github.com/assetgrid/catalog/pkg/contextutil"
	"github.com/assetgrid/catalog/pkg/logging"
	"github.com/assetgrid/catalog/pkg/state"
	"github.com/assetgrid/catalog/pkg/storage"
	"github.com/assetgrid/catalog/pkg/watching"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

const (
	// debounceWindow mirrors fsprovider's 100ms coalescing window (§4.F
	// defers to the same debounce behavior as §4.E).
	debounceWindow = 100 * time.Millisecond
	// DefaultIndexFileName is used when Config.IndexFileName is empty.
	DefaultIndexFileName = "container.index.bin"
)

// Config configures a container-index catalog provider, matching §6.5.
type Config struct {
	// CookedRootFolderPath is the folder containing the index file (and,
	// conceptually, its payloads).
	CookedRootFolderPath string
	// IndexFileName is the index file's name within CookedRootFolderPath.
	// Defaults to DefaultIndexFileName.
	IndexFileName string
	// WatcherFilter restricts the filesystem watch to relevant files: only
	// events on files whose base name matches it (a filepath.Match pattern)
	// trigger a reload. Defaults to IndexFileName.
	WatcherFilter string
	// Authority, if set, is the mount token for URIs derived from this
	// container, overriding whatever mount is encoded in the index's own
	// virtual paths. Leave empty to trust the index-encoded mount.
	Authority string
}

func (c Config) indexFileName() string {
	if c.IndexFileName == "" {
		return DefaultIndexFileName
	}
	return c.IndexFileName
}

func (c Config) watcherFilter() string {
	if c.WatcherFilter == "" {
		return c.indexFileName()
	}
	return c.WatcherFilter
}

func (c Config) indexPath() string {
	return filepath.Join(c.CookedRootFolderPath, c.indexFileName())
}

// storeEntry pairs a decoded container entry with the URI derived from its
// virtual path, since the diff in reload-and-diff is keyed by fingerprint.
type storeEntry struct {
	uri   *asseturi.URI
	entry containerindex.Entry
}

// Provider is the container-index catalog provider.
type Provider struct {
	config       Config
	logger       *logging.Logger
	collaborator storage.Collaborator

	feed   *catalog.Changefeed
	source watching.Source

	mu    sync.RWMutex
	store map[asseturi.Fingerprint]storeEntry

	initOnce    sync.Once
	watchOnce   sync.Once
	closeOnce   sync.Once
	stopWatcher chan struct{}
	watcherDone chan struct{}
}

// New constructs a container-index catalog provider. The first decode of
// the index file is deferred until the first call to Query.
func New(config Config, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.RootLogger
	}
	return &Provider{
		config:       config,
		logger:       logger.Sublogger("containerprovider"),
		collaborator: storage.NewLocalCollaborator(),
		feed:         catalog.NewChangefeed(),
		store:        make(map[asseturi.Fingerprint]storeEntry),
		stopWatcher:  make(chan struct{}),
		watcherDone:  make(chan struct{}),
	}
}

func (p *Provider) ensureInitialized() {
	p.initOnce.Do(func() {
		fresh, err := p.decode()
		if err != nil {
			p.logger.Warnf("initial container index decode failed: %v", err)
			fresh = make(map[asseturi.Fingerprint]storeEntry)
		}
		p.mu.Lock()
		p.store = fresh
		p.mu.Unlock()
		p.startWatching()
	})
}

// decode reads and decodes the index file. A missing file is not an error:
// it decodes to an empty store, per §4.F initialization.
func (p *Provider) decode() (map[asseturi.Fingerprint]storeEntry, error) {
	document, err := p.collaborator.GetDocument(p.config.indexPath())
	if err != nil {
		return nil, catalog.WrapStorageError(err, "resolving container index path")
	}
	if !document.Exists() {
		return make(map[asseturi.Fingerprint]storeEntry), nil
	}

	reader, err := document.OpenRead()
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[asseturi.Fingerprint]storeEntry), nil
		}
		return nil, catalog.WrapStorageError(err, "reading container index")
	}
	defer reader.Close()

	entries, err := containerindex.Read(reader)
	if err != nil {
		return nil, err
	}

	decoded := make(map[asseturi.Fingerprint]storeEntry, len(entries))
	for _, entry := range entries {
		uri, err := containerindex.URIForVirtualPath(entry.VirtualPath)
		if err != nil {
			// Entries with an invalid virtual path are skipped rather than
			// failing the whole decode.
			continue
		}
		if p.config.Authority != "" {
			// Authority overrides whatever mount is baked into the index's
			// virtual paths, letting the same cooked container be remounted
			// under a different name without re-baking it.
			uri, err = asseturi.Make(p.config.Authority, uri.Relative())
			if err != nil {
				continue
			}
		}
		decoded[uri.Fingerprint()] = storeEntry{uri: uri, entry: entry}
	}
	return decoded, nil
}

func (p *Provider) startWatching() {
	p.watchOnce.Do(func() {
		source, err := watching.NewNativeSource(p.config.CookedRootFolderPath, p.logger)
		if err != nil {
			p.logger.Warnf("failed to start container index watcher: %v", err)
			close(p.watcherDone)
			return
		}
		p.source = source
		go p.runUpdatePipeline()
	})
}

func (p *Provider) runUpdatePipeline() {
	defer close(p.watcherDone)

	coalescer := state.NewCoalescer(debounceWindow)
	defer coalescer.Terminate()

	filter := p.config.watcherFilter()

	for {
		select {
		case <-p.stopWatcher:
			p.source.Stop()
			return
		case ev, ok := <-p.source.Events():
			if !ok {
				return
			}
			if !eventRelevant(ev, filter) {
				continue
			}
			coalescer.Strobe()
		case <-coalescer.Events():
			p.reloadAndDiff()
		}
	}
}

// eventRelevant reports whether ev concerns a file whose base name matches
// the watcher filter, which defaults to the index file name
// (RescanRequired is always relevant, since it means "re-derive state").
func eventRelevant(ev watching.Event, filter string) bool {
	if ev.Kind == watching.RescanRequired {
		return true
	}
	return baseMatches(filter, ev.Path) || baseMatches(filter, ev.OldPath)
}

// baseMatches reports whether the base name of path matches filter as a
// filepath.Match pattern. An empty path never matches.
func baseMatches(filter, path string) bool {
	if path == "" {
		return false
	}
	matched, err := filepath.Match(filter, filepath.Base(path))
	return err == nil && matched
}

// reloadAndDiff implements §4.F's reload-and-diff algorithm. On decode
// failure it clears the store and emits Removed for everything that was
// present, never propagating the error through the change stream.
func (p *Provider) reloadAndDiff() {
	p.mu.RLock()
	before := p.store
	p.mu.RUnlock()

	after, err := p.decode()
	if err != nil {
		p.logger.Warnf("container index reload failed, clearing store: %v", err)
		p.mu.Lock()
		p.store = make(map[asseturi.Fingerprint]storeEntry)
		p.mu.Unlock()
		for _, prior := range before {
			p.feed.Publish(catalog.AssetChange{Kind: catalog.Removed, URI: prior.uri})
		}
		return
	}

	p.mu.Lock()
	p.store = after
	p.mu.Unlock()

	for fp, prior := range before {
		if _, ok := after[fp]; !ok {
			p.feed.Publish(catalog.AssetChange{Kind: catalog.Removed, URI: prior.uri})
		}
	}
	for fp, current := range after {
		prior, existed := before[fp]
		if !existed {
			p.feed.Publish(catalog.AssetChange{Kind: catalog.Added, URI: current.uri})
		} else if prior.entry != current.entry {
			p.feed.Publish(catalog.AssetChange{Kind: catalog.Updated, URI: current.uri})
		}
	}
}

// Query implements catalog.Provider.
func (p *Provider) Query(ctx context.Context, q assetquery.Query) ([]catalog.AssetRecord, error) {
	p.ensureInitialized()
	if contextutil.IsCancelled(ctx) {
		return nil, ctx.Err()
	}

	p.mu.RLock()
	candidates := make([]storeEntry, 0, len(p.store))
	for _, entry := range p.store {
		candidates = append(candidates, entry)
	}
	p.mu.RUnlock()

	results := make([]catalog.AssetRecord, 0, len(candidates))
	for _, c := range candidates {
		if !assetquery.Matches(q.Scope, c.uri) {
			continue
		}
		if !q.MatchesSearchText(c.uri.String()) {
			continue
		}
		results = append(results, catalog.AssetRecord{
			URI:         c.uri,
			DerivedName: catalog.DerivedNameOf(c.uri.Relative()),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].URI.String() < results[j].URI.String()
	})
	return results, nil
}

// Changes implements catalog.Provider.
func (p *Provider) Changes() *catalog.Changefeed {
	return p.feed
}

// Close implements catalog.Provider.
func (p *Provider) Close() error {
	p.closeOnce.Do(func() {
		close(p.stopWatcher)
		if p.source != nil {
			<-p.watcherDone
		}
		p.feed.Close()
	})
	return nil
}
