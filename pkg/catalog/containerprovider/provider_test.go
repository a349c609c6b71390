package containerprovider

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/assetgrid/catalog/pkg/assetquery"
	"github.com/assetgrid/catalog/pkg/catalog"
	"github.com/assetgrid/catalog/pkg/containerindex"
)

func writeIndex(t *testing.T, path string, entries []containerindex.Entry) {
	t.Helper()
	data, err := containerindex.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func hashOf(s string) [32]byte { return sha256.Sum256([]byte(s)) }

func TestQueryOnMissingIndexIsEmpty(t *testing.T) {
	root := t.TempDir()
	p := New(Config{CookedRootFolderPath: root, Authority: "Engine"}, nil)
	defer p.Close()

	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Error("expected no records when index file is missing")
	}
}

func TestQueryDecodesExistingIndex(t *testing.T) {
	root := t.TempDir()
	indexPath := filepath.Join(root, DefaultIndexFileName)
	writeIndex(t, indexPath, []containerindex.Entry{
		{VirtualPath: "/Engine/Meshes/Cube", ContentHash: hashOf("cube")},
	})

	p := New(Config{CookedRootFolderPath: root}, nil)
	defer p.Close()

	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].URI.String() != "asset:///Engine/Meshes/Cube" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

// TestContainerDiff exercises end-to-end scenario 5.
func TestContainerDiff(t *testing.T) {
	root := t.TempDir()
	indexPath := filepath.Join(root, DefaultIndexFileName)

	writeIndex(t, indexPath, []containerindex.Entry{
		{VirtualPath: "/Engine/Meshes/Cube", ContentHash: hashOf("cube")},
		{VirtualPath: "/Engine/Meshes/Sphere", ContentHash: hashOf("sphere")},
	})

	p := New(Config{CookedRootFolderPath: root}, nil)
	defer p.Close()

	if _, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()}); err != nil {
		t.Fatal(err)
	}

	sub := p.Changes().Subscribe()
	defer sub.Close()

	writeIndex(t, indexPath, []containerindex.Entry{
		{VirtualPath: "/Engine/Meshes/Sphere", ContentHash: hashOf("sphere")},
		{VirtualPath: "/Engine/Meshes/Cone", ContentHash: hashOf("cone")},
	})

	var changes []catalog.AssetChange
	deadline := time.After(3 * time.Second)
collect:
	for len(changes) < 2 {
		select {
		case change := <-sub.Events():
			changes = append(changes, change)
		case <-deadline:
			break collect
		}
	}

	if len(changes) != 2 {
		t.Fatalf("expected exactly 2 changes (Removed Cube, Added Cone), got %+v", changes)
	}

	var sawRemovedCube, sawAddedCone bool
	for _, c := range changes {
		if c.Kind == catalog.Removed && c.URI.String() == "asset:///Engine/Meshes/Cube" {
			sawRemovedCube = true
		}
		if c.Kind == catalog.Added && c.URI.String() == "asset:///Engine/Meshes/Cone" {
			sawAddedCone = true
		}
	}
	if !sawRemovedCube || !sawAddedCone {
		t.Errorf("unexpected diff result: %+v", changes)
	}
}

func TestAuthorityOverridesIndexEncodedMount(t *testing.T) {
	root := t.TempDir()
	indexPath := filepath.Join(root, DefaultIndexFileName)
	writeIndex(t, indexPath, []containerindex.Entry{
		{VirtualPath: "/Baked/Meshes/Cube", ContentHash: hashOf("cube")},
	})

	p := New(Config{CookedRootFolderPath: root, Authority: "Engine"}, nil)
	defer p.Close()

	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].URI.String() != "asset:///Engine/Meshes/Cube" {
		t.Fatalf("expected Authority to override the index-encoded mount, got %+v", records)
	}
}

func TestDecodeFailureClearsStore(t *testing.T) {
	root := t.TempDir()
	indexPath := filepath.Join(root, DefaultIndexFileName)
	writeIndex(t, indexPath, []containerindex.Entry{
		{VirtualPath: "/Engine/Meshes/Cube", ContentHash: hashOf("cube")},
	})

	p := New(Config{CookedRootFolderPath: root}, nil)
	defer p.Close()

	if _, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()}); err != nil {
		t.Fatal(err)
	}

	sub := p.Changes().Subscribe()
	defer sub.Close()

	if err := os.WriteFile(indexPath, []byte{0x00, 0x01, 0x02}, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-sub.Events():
		if change.Kind != catalog.Removed {
			t.Errorf("expected Removed on decode failure, got %v", change.Kind)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for Removed after decode failure")
	}

	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Error("expected store to be cleared after decode failure")
	}
}
