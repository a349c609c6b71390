package catalog

import (
	"testing"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

func uri(t *testing.T, mount, relative string) *asseturi.URI {
	t.Helper()
	u, err := asseturi.Make(mount, relative)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestDerivedNameOf(t *testing.T) {
	cases := map[string]string{
		"Materials/Wood.omat": "Wood",
		"Cube":                "Cube",
		"a.b.c":                "a.b",
	}
	for input, want := range cases {
		if got := DerivedNameOf(input); got != want {
			t.Errorf("DerivedNameOf(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSortRecordsByteOrder(t *testing.T) {
	records := []AssetRecord{
		{URI: uri(t, "Content", "z.txt")},
		{URI: uri(t, "Content", "a.txt")},
		{URI: uri(t, "Content", "m.txt")},
	}
	SortRecords(records)
	if records[0].URI.Relative() != "a.txt" || records[2].URI.Relative() != "z.txt" {
		t.Error("records not sorted by URI string")
	}
}

// TestDedupeByFingerprint exercises end-to-end scenario 6: composite dedup.
func TestDedupeByFingerprint(t *testing.T) {
	a := AssetRecord{URI: uri(t, "Content", "X"), DerivedName: "X"}
	b := AssetRecord{URI: uri(t, "Content", "X"), DerivedName: "X"}
	c := AssetRecord{URI: uri(t, "Content", "Y"), DerivedName: "Y"}

	deduped := DedupeByFingerprint([]AssetRecord{a, c, b})
	if len(deduped) != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", len(deduped))
	}
	if deduped[0].URI.Relative() != "X" || deduped[1].URI.Relative() != "Y" {
		t.Error("unexpected dedup result ordering")
	}
}
