package genprovider

import (
	"context"
	"testing"

	"github.com/assetgrid/catalog/pkg/assetquery"
)

func TestQueryReturnsDefaultBuiltIns(t *testing.T) {
	p, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All()})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(DefaultBuiltIns) {
		t.Fatalf("expected %d records, got %d", len(DefaultBuiltIns), len(records))
	}
}

func TestChangesStreamIsImmediatelyComplete(t *testing.T) {
	p, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	sub := p.Changes().Subscribe()
	_, open := <-sub.Events()
	if open {
		t.Error("expected generated provider's change stream to already be complete")
	}
}

func TestQueryFiltersBySearchText(t *testing.T) {
	p, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	records, err := p.Query(context.Background(), assetquery.Query{Scope: assetquery.All(), SearchText: "cube"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one Cube record, got %d", len(records))
	}
}
