// Package composite implements the composite catalog (§4.H): it merges N
// child providers into one, fanning queries out in parallel and sharing one
// ref-counted subscription per child across all of its own subscribers.
package composite

import (
	"context"
	"sync"

	"github.com/assetgrid/catalog/pkg/assetquery"
	"github.com/assetgrid/catalog/pkg/catalog"
)

// Catalog is a composite catalog over a fixed set of child providers.
type Catalog struct {
	providers []catalog.Provider
	merged    *catalog.Changefeed

	mu          sync.Mutex
	active      bool
	childSubs   []*catalog.Subscription
	forwardDone chan struct{}
}

// New constructs a composite catalog over providers. The composite borrows
// the providers for its lifetime: Close calls Close on each of them.
func New(providers ...catalog.Provider) *Catalog {
	c := &Catalog{
		providers: providers,
		merged:    catalog.NewChangefeed(),
	}
	c.merged.SetRefCountHooks(c.startForwarding, c.stopForwarding)
	if len(providers) == 0 {
		// An empty composition's change stream is empty and already complete.
		c.merged.Close()
	}
	return c
}

// Query implements catalog.Provider: it fans query out to every child in
// parallel, awaits all of them, flattens, deduplicates by URI fingerprint,
// and sorts by full URI string (§4.H). An empty composition returns an
// empty list.
func (c *Catalog) Query(ctx context.Context, q assetquery.Query) ([]catalog.AssetRecord, error) {
	if len(c.providers) == 0 {
		return []catalog.AssetRecord{}, nil
	}

	type result struct {
		records []catalog.AssetRecord
		err     error
	}
	results := make([]result, len(c.providers))

	var wg sync.WaitGroup
	for i, provider := range c.providers {
		wg.Add(1)
		go func(i int, provider catalog.Provider) {
			defer wg.Done()
			records, err := provider.Query(ctx, q)
			results[i] = result{records: records, err: err}
		}(i, provider)
	}
	wg.Wait()

	var all []catalog.AssetRecord
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		all = append(all, r.records...)
	}

	return catalog.DedupeByFingerprint(all), nil
}

// Changes implements catalog.Provider: a lazy, ref-counted shared merge of
// every child's change stream.
func (c *Catalog) Changes() *catalog.Changefeed {
	return c.merged
}

// Close implements catalog.Provider: it releases the merged forwarding
// subscription (if active) and closes every child provider.
func (c *Catalog) Close() error {
	c.merged.Close()
	var firstErr error
	for _, provider := range c.providers {
		if err := provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// startForwarding subscribes to every child and forwards their changes into
// the merged feed. It is invoked when the merged feed's subscriber count
// transitions from zero to one.
func (c *Catalog) startForwarding() {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.active = true
	subs := make([]*catalog.Subscription, len(c.providers))
	for i, provider := range c.providers {
		subs[i] = provider.Changes().Subscribe()
	}
	c.childSubs = subs
	done := make(chan struct{})
	c.forwardDone = done
	c.mu.Unlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *catalog.Subscription) {
			defer wg.Done()
			for change := range sub.Events() {
				c.merged.Publish(change)
			}
		}(sub)
	}

	go func() {
		wg.Wait()
		close(done)
	}()
}

// stopForwarding unsubscribes from every child. It is invoked when the
// merged feed's subscriber count drops back to zero; a subsequent subscribe
// calls startForwarding again, reconstituting the upstream.
func (c *Catalog) stopForwarding() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	subs := c.childSubs
	c.childSubs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
