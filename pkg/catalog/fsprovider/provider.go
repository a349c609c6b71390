// Package fsprovider implements the filesystem catalog provider (§4.E): an
// authoritative, incrementally-updated index of files under a mount rooted
// at a directory, kept current via a filesystem event source and a 100ms
// coalescing window.
package fsprovider

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/assetgrid/catalog/pkg/asseturi"
	"github.com/assetgrid/catalog/pkg/assetquery"
	"github.com/assetgrid/catalog/pkg/catalog"
	"github.com/assetgrid/catalog/pkg/contextutil"
	"github.com/assetgrid/catalog/pkg/logging"
	"github.com/assetgrid/catalog/pkg/state"
	"github.com/assetgrid/catalog/pkg/storage"
	"github.com/assetgrid/catalog/pkg/watching"
)

// debounceWindow is the event coalescing window from §4.E step 2.
const debounceWindow = 100 * time.Millisecond

// Config configures a filesystem catalog provider, matching §6.5.
type Config struct {
	// MountPoint is the authority token inserted into URIs produced by this
	// provider.
	MountPoint string
	// RootFolderPath is the absolute root of the walk.
	RootFolderPath string
	// WatcherFilter is an optional doublestar glob restricting which
	// relative paths are indexed and watched.
	WatcherFilter string
}

// Provider is the filesystem catalog provider.
type Provider struct {
	config       Config
	logger       *logging.Logger
	collaborator storage.Collaborator

	feed   *catalog.Changefeed
	source watching.Source

	mu    sync.RWMutex
	store map[string]catalog.AssetRecord // keyed by relative path

	initOnce    sync.Once
	initErr     error
	watchOnce   sync.Once
	closeOnce   sync.Once
	stopWatcher chan struct{}
	watcherDone chan struct{}
}

// New constructs a filesystem catalog provider. Initialization (the initial
// directory walk) is deferred until the first call to Query.
func New(config Config, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.RootLogger
	}
	return &Provider{
		config:       config,
		logger:       logger.Sublogger("fsprovider"),
		collaborator: storage.NewLocalCollaborator(),
		feed:         catalog.NewChangefeed(),
		store:        make(map[string]catalog.AssetRecord),
		stopWatcher:  make(chan struct{}),
		watcherDone:  make(chan struct{}),
	}
}

// ensureInitialized performs the one-time initial snapshot walk and starts
// the incremental update pipeline. It is idempotent and safe to call
// concurrently.
func (p *Provider) ensureInitialized() error {
	p.initOnce.Do(func() {
		p.initErr = p.rescan()
		if p.initErr == nil {
			p.startWatching()
		}
	})
	return p.initErr
}

// rescan performs a full depth-first walk of the root, rebuilding the store
// from scratch and emitting Added/Removed for the difference against the
// previous contents. No Updated is emitted during a rescan (§4.E).
func (p *Provider) rescan() error {
	fresh := make(map[string]catalog.AssetRecord)

	folder, err := p.collaborator.GetFolder(p.config.RootFolderPath)
	if err != nil {
		return catalog.WrapStorageError(err, "resolving filesystem catalog root")
	}
	if !folder.Exists() {
		// A missing root is not an error: the store is simply empty.
		p.applyRescanResult(fresh)
		return nil
	}

	documents, err := folder.Documents()
	if err != nil {
		return catalog.WrapStorageError(err, "walking filesystem catalog root")
	}
	for _, relative := range documents {
		if !isIncluded(relative, p.config.WatcherFilter) {
			continue
		}
		uri, makeErr := asseturi.Make(p.config.MountPoint, relative)
		if makeErr != nil {
			continue
		}
		fresh[relative] = catalog.AssetRecord{URI: uri, DerivedName: catalog.DerivedNameOf(relative)}
	}

	p.applyRescanResult(fresh)
	return nil
}

// applyRescanResult swaps in a freshly-walked store, publishing Removed for
// entries that disappeared and Added for entries that are new.
func (p *Provider) applyRescanResult(fresh map[string]catalog.AssetRecord) {
	p.mu.Lock()
	previous := p.store
	p.store = fresh
	p.mu.Unlock()

	for relative, record := range previous {
		if _, ok := fresh[relative]; !ok {
			p.feed.Publish(catalog.AssetChange{Kind: catalog.Removed, URI: record.URI})
		}
	}
	for relative, record := range fresh {
		if _, ok := previous[relative]; !ok {
			p.feed.Publish(catalog.AssetChange{Kind: catalog.Added, URI: record.URI})
		}
	}
}

// relativePath computes the store key for fullPath: a slash-separated path
// relative to the provider's root, with original case preserved.
func (p *Provider) relativePath(fullPath string) (string, bool) {
	rel, err := filepath.Rel(p.config.RootFolderPath, fullPath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// startWatching subscribes to a filesystem event source and runs the
// debounced incremental update pipeline in a background goroutine.
func (p *Provider) startWatching() {
	p.watchOnce.Do(func() {
		source, err := watching.NewNativeSource(p.config.RootFolderPath, p.logger)
		if err != nil {
			p.logger.Warnf("failed to start filesystem watcher: %v", err)
			close(p.watcherDone)
			return
		}
		p.source = source
		go p.runUpdatePipeline()
	})
}

// runUpdatePipeline implements §4.E step 2-4: coalesce raw events into
// 100ms batches, fold each batch into the store in order, and fall back to
// a full rescan on RescanRequired or any application error.
func (p *Provider) runUpdatePipeline() {
	defer close(p.watcherDone)

	coalescer := state.NewCoalescer(debounceWindow)
	defer coalescer.Terminate()

	var mu sync.Mutex
	var pending []watching.Event
	rescanRequired := false

	for {
		select {
		case <-p.stopWatcher:
			p.source.Stop()
			return
		case ev, ok := <-p.source.Events():
			if !ok {
				return
			}
			mu.Lock()
			if ev.Kind == watching.RescanRequired {
				rescanRequired = true
			} else {
				pending = append(pending, ev)
			}
			mu.Unlock()
			coalescer.Strobe()
		case <-coalescer.Events():
			mu.Lock()
			batch := pending
			needsRescan := rescanRequired
			pending = nil
			rescanRequired = false
			mu.Unlock()

			if needsRescan {
				if err := p.rescan(); err != nil {
					p.logger.Warnf("rescan after RescanRequired failed: %v", err)
				}
				continue
			}
			if err := p.applyBatch(batch); err != nil {
				p.logger.Warnf("applying event batch failed, falling back to rescan: %v", err)
				if rescanErr := p.rescan(); rescanErr != nil {
					p.logger.Warnf("fallback rescan failed: %v", rescanErr)
				}
			}
		}
	}
}

// applyBatch folds a batch of events into the store in order, per the
// per-kind rules in §4.E step 3. A Changed event for a path that was created
// or renamed into place earlier in the same batch is part of that creation
// and is not folded into an Updated.
func (p *Provider) applyBatch(batch []watching.Event) error {
	createdInBatch := make(map[string]bool)
	for _, ev := range batch {
		if ev.Kind == watching.Changed && createdInBatch[ev.Path] {
			continue
		}
		if ev.Kind == watching.Created || ev.Kind == watching.Renamed {
			createdInBatch[ev.Path] = true
		}
		if err := p.applyOne(ev); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) applyOne(ev watching.Event) error {
	switch ev.Kind {
	case watching.Created:
		return p.foldCreated(ev.Path)
	case watching.Changed:
		return p.foldChanged(ev.Path)
	case watching.Deleted:
		return p.foldDeleted(ev.Path)
	case watching.Renamed:
		return p.foldRenamed(ev.OldPath, ev.Path)
	default:
		// Unknown event shapes are ignored (§7).
		return nil
	}
}

func (p *Provider) foldCreated(fullPath string) error {
	relative, inScope := p.inScope(fullPath)
	if !inScope {
		return nil
	}
	uri, err := asseturi.Make(p.config.MountPoint, relative)
	if err != nil {
		return nil
	}

	p.mu.Lock()
	_, existed := p.store[relative]
	record := catalog.AssetRecord{URI: uri, DerivedName: catalog.DerivedNameOf(relative)}
	p.store[relative] = record
	p.mu.Unlock()

	if !existed {
		p.feed.Publish(catalog.AssetChange{Kind: catalog.Added, URI: uri})
	}
	return nil
}

func (p *Provider) foldChanged(fullPath string) error {
	relative, inScope := p.inScope(fullPath)
	if !inScope {
		return nil
	}
	uri, err := asseturi.Make(p.config.MountPoint, relative)
	if err != nil {
		return nil
	}

	p.mu.Lock()
	_, existed := p.store[relative]
	p.store[relative] = catalog.AssetRecord{URI: uri, DerivedName: catalog.DerivedNameOf(relative)}
	p.mu.Unlock()

	if existed {
		p.feed.Publish(catalog.AssetChange{Kind: catalog.Updated, URI: uri})
	} else {
		p.feed.Publish(catalog.AssetChange{Kind: catalog.Added, URI: uri})
	}
	return nil
}

func (p *Provider) foldDeleted(fullPath string) error {
	relative, ok := p.relativePath(fullPath)
	if !ok {
		return nil
	}

	p.mu.Lock()
	record, existed := p.store[relative]
	if existed {
		delete(p.store, relative)
	}
	p.mu.Unlock()

	if existed {
		p.feed.Publish(catalog.AssetChange{Kind: catalog.Removed, URI: record.URI})
	}
	return nil
}

// foldRenamed implements the four-way rename fold from §4.E step 3.
func (p *Provider) foldRenamed(oldFullPath, newFullPath string) error {
	oldRelative, oldInScope := p.inScope(oldFullPath)
	newRelative, newInScope := p.inScope(newFullPath)

	switch {
	case oldInScope && newInScope:
		oldURI, err := asseturi.Make(p.config.MountPoint, oldRelative)
		if err != nil {
			return nil
		}
		newURI, err := asseturi.Make(p.config.MountPoint, newRelative)
		if err != nil {
			return nil
		}

		p.mu.Lock()
		delete(p.store, oldRelative)
		p.store[newRelative] = catalog.AssetRecord{URI: newURI, DerivedName: catalog.DerivedNameOf(newRelative)}
		p.mu.Unlock()

		p.feed.Publish(catalog.AssetChange{Kind: catalog.Relocated, URI: newURI, PreviousURI: oldURI})
		return nil
	case !oldInScope && newInScope:
		return p.foldCreated(newFullPath)
	case oldInScope && !newInScope:
		return p.foldDeleted(oldFullPath)
	default:
		return nil
	}
}

// inScope reports the relative path for fullPath and whether it maps under
// the root, is not an existing directory, and passes the inclusion rule.
func (p *Provider) inScope(fullPath string) (string, bool) {
	relative, ok := p.relativePath(fullPath)
	if !ok {
		return "", false
	}
	if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
		return "", false
	}
	return relative, isIncluded(relative, p.config.WatcherFilter)
}

// Query implements catalog.Provider.
func (p *Provider) Query(ctx context.Context, q assetquery.Query) ([]catalog.AssetRecord, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}
	if contextutil.IsCancelled(ctx) {
		return nil, ctx.Err()
	}

	p.mu.RLock()
	candidates := make([]catalog.AssetRecord, 0, len(p.store))
	for _, record := range p.store {
		candidates = append(candidates, record)
	}
	p.mu.RUnlock()

	results := make([]catalog.AssetRecord, 0, len(candidates))
	for _, record := range candidates {
		if !assetquery.Matches(q.Scope, record.URI) {
			continue
		}
		if !q.MatchesAnySearchText(record.URI.String(), record.DerivedName, record.URI.Mount()) {
			continue
		}
		results = append(results, record)
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

// Close implements catalog.Provider: it stops the watcher and completes the
// change feed.
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
