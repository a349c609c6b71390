package fsprovider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/assetgrid/catalog/pkg/assetquery"
	"github.com/assetgrid/catalog/pkg/catalog"
)

func newTestProvider(t *testing.T, root, mount string) *Provider {
	t.Helper()
	p := New(Config{MountPoint: mount, RootFolderPath: root}, nil)
	t.Cleanup(func() { p.Close() })
	return p
}

func awaitChange(t *testing.T, sub *catalog.Subscription, timeout time.Duration) catalog.AssetChange {
	t.Helper()
	select {
	case change := <-sub.Events():
		return change
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a change")
		return catalog.AssetChange{}
	}
}

// TestFilesystemAddRenameDelete exercises end-to-end scenario 3.
func TestFilesystemAddRenameDelete(t *testing.T) {
	root := t.TempDir()
	p := newTestProvider(t, root, "Content")

	// Trigger initialization against the empty root.
	if _, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()}); err != nil {
		t.Fatal(err)
	}

	sub := p.Changes().Subscribe()
	defer sub.Close()

	aPath := filepath.Join(root, "a.txt")
	if err := os.WriteFile(aPath, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	added := awaitChange(t, sub, 2*time.Second)
	if added.Kind != catalog.Added || added.URI.String() != "asset:///Content/a.txt" {
		t.Fatalf("unexpected first change: %+v", added)
	}

	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	bPath := filepath.Join(root, "sub", "b.txt")
	if err := os.Rename(aPath, bPath); err != nil {
		t.Fatal(err)
	}
	relocated := awaitChange(t, sub, 2*time.Second)
	if relocated.Kind != catalog.Relocated {
		t.Fatalf("expected Relocated, got %+v", relocated)
	}
	if relocated.URI.String() != "asset:///Content/sub/b.txt" {
		t.Errorf("unexpected new URI: %s", relocated.URI.String())
	}
	if relocated.PreviousURI == nil || relocated.PreviousURI.String() != "asset:///Content/a.txt" {
		t.Errorf("unexpected previous URI: %v", relocated.PreviousURI)
	}

	if err := os.Remove(bPath); err != nil {
		t.Fatal(err)
	}
	removed := awaitChange(t, sub, 2*time.Second)
	if removed.Kind != catalog.Removed || removed.URI.String() != "asset:///Content/sub/b.txt" {
		t.Fatalf("unexpected removal: %+v", removed)
	}
}

// TestHiddenExclusion exercises end-to-end scenario 4.
func TestHiddenExclusion(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".cache"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".cache", "x"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newTestProvider(t, root, "Content")
	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records for hidden-only root, got %v", records)
	}
}

func TestQueryReturnsSortedRecords(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"z.txt", "a.txt", "m.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p := newTestProvider(t, root, "Content")
	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].URI.String() >= records[i].URI.String() {
			t.Error("records not sorted by URI string")
		}
	}
}

func TestQueryOnMissingRootReturnsEmpty(t *testing.T) {
	p := newTestProvider(t, filepath.Join(t.TempDir(), "missing"), "Content")
	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Error("expected no records for a missing root")
	}
}
