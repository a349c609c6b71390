package composite

import (
	"context"
	"testing"
	"time"

	"github.com/assetgrid/catalog/pkg/asseturi"
	"github.com/assetgrid/catalog/pkg/assetquery"
	"github.com/assetgrid/catalog/pkg/catalog"
)

// fakeProvider is a minimal catalog.Provider for composite tests.
type fakeProvider struct {
	records []catalog.AssetRecord
	feed    *catalog.Changefeed
	closed  bool
}

func newFakeProvider(records ...catalog.AssetRecord) *fakeProvider {
	return &fakeProvider{records: records, feed: catalog.NewChangefeed()}
}

func (f *fakeProvider) Query(_ context.Context, q assetquery.Query) ([]catalog.AssetRecord, error) {
	var out []catalog.AssetRecord
	for _, r := range f.records {
		if assetquery.Matches(q.Scope, r.URI) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeProvider) Changes() *catalog.Changefeed { return f.feed }

func (f *fakeProvider) Close() error {
	f.closed = true
	f.feed.Close()
	return nil
}

func mustMake(t *testing.T, mount, relative string) *asseturi.URI {
	t.Helper()
	u, err := asseturi.Make(mount, relative)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestEmptyCompositeReturnsEmptyList(t *testing.T) {
	c := New()
	records, err := c.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Error("expected empty composition to return an empty list")
	}
}

func TestEmptyCompositeChangesAlreadyComplete(t *testing.T) {
	c := New()
	sub := c.Changes().Subscribe()
	_, open := <-sub.Events()
	if open {
		t.Error("expected an empty composite's change stream to be complete")
	}
}

// TestCompositeDedup exercises end-to-end scenario 6.
func TestCompositeDedup(t *testing.T) {
	shared := mustMake(t, "Content", "X")
	fs := newFakeProvider(catalog.AssetRecord{URI: shared, DerivedName: "X"})
	gen := newFakeProvider(catalog.AssetRecord{URI: shared, DerivedName: "X"})

	c := New(fs, gen)
	defer c.Close()

	records, err := c.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one deduplicated record, got %d", len(records))
	}
}

func TestCompositeMergesChildChanges(t *testing.T) {
	a := newFakeProvider()
	b := newFakeProvider()
	c := New(a, b)
	defer c.Close()

	sub := c.Changes().Subscribe()
	defer sub.Close()

	uriA := mustMake(t, "Content", "a.txt")
	uriB := mustMake(t, "Content", "b.txt")
	a.feed.Publish(catalog.AssetChange{Kind: catalog.Added, URI: uriA})
	b.feed.Publish(catalog.AssetChange{Kind: catalog.Added, URI: uriB})

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case change := <-sub.Events():
			seen[change.URI.String()] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for merged change")
		}
	}
	if !seen[uriA.String()] || !seen[uriB.String()] {
		t.Errorf("expected both child changes to be forwarded, got %v", seen)
	}
}

func TestCompositeStopsForwardingWhenUnsubscribed(t *testing.T) {
	a := newFakeProvider()
	c := New(a)
	defer c.Close()

	sub := c.Changes().Subscribe()
	sub.Close()

	// Give the teardown goroutine a moment, then resubscribe and verify
	// forwarding resumes (reconstituted upstream).
	time.Sleep(20 * time.Millisecond)

	sub2 := c.Changes().Subscribe()
	defer sub2.Close()

	uri := mustMake(t, "Content", "a.txt")
	a.feed.Publish(catalog.AssetChange{Kind: catalog.Added, URI: uri})

	select {
	case change := <-sub2.Events():
		if change.URI.String() != uri.String() {
			t.Errorf("unexpected change: %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change after resubscribe")
	}
}

func TestCompositeCloseClosesChildren(t *testing.T) {
	a := newFakeProvider()
	b := newFakeProvider()
	c := New(a, b)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !a.closed || !b.closed {
		t.Error("expected Close to close every child provider")
	}
}
