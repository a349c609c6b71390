// Package genprovider implements the generated catalog provider (§4.G): an
// immutable, in-memory set of built-in records such as primitive meshes and
// the default material, constructed once at startup.
package genprovider

import (
	"context"
	"sort"

	"github.com/assetgrid/catalog/pkg/asseturi"
	"github.com/assetgrid/catalog/pkg/assetquery"
	"github.com/assetgrid/catalog/pkg/catalog"
)

// BuiltIn names one generated record's mount-relative path.
type BuiltIn struct {
	Mount    string
	Relative string
}

// DefaultBuiltIns is the reference set of generated records: primitive
// meshes and a default material, mirroring what a game engine's runtime
// typically synthesizes rather than loads from disk.
var DefaultBuiltIns = []BuiltIn{
	{Mount: "Generated", Relative: "Meshes/Cube"},
	{Mount: "Generated", Relative: "Meshes/Sphere"},
	{Mount: "Generated", Relative: "Meshes/Plane"},
	{Mount: "Generated", Relative: "Materials/Default"},
}

// Provider is the generated catalog provider. It is immutable after
// construction: Changes returns an empty, already-completed feed.
type Provider struct {
	records []catalog.AssetRecord
	feed    *catalog.Changefeed
}

// New constructs a generated catalog provider from builtIns. If builtIns is
// nil, DefaultBuiltIns is used.
func New(builtIns []BuiltIn) (*Provider, error) {
	if builtIns == nil {
		builtIns = DefaultBuiltIns
	}

	records := make([]catalog.AssetRecord, 0, len(builtIns))
	for _, b := range builtIns {
		uri, err := asseturi.Make(b.Mount, b.Relative)
		if err != nil {
			return nil, err
		}
		records = append(records, catalog.AssetRecord{URI: uri, DerivedName: catalog.DerivedNameOf(b.Relative)})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].URI.String() < records[j].URI.String()
	})

	feed := catalog.NewChangefeed()
	feed.Close() // an immutable provider's change stream is already complete.

	return &Provider{records: records, feed: feed}, nil
}

// Query implements catalog.Provider.
func (p *Provider) Query(_ context.Context, q assetquery.Query) ([]catalog.AssetRecord, error) {
	results := make([]catalog.AssetRecord, 0, len(p.records))
	for _, record := range p.records {
		if !assetquery.Matches(q.Scope, record.URI) {
			continue
		}
		if !q.MatchesAnySearchText(record.URI.String(), record.DerivedName, record.URI.Mount()) {
			continue
		}
		results = append(results, record)
	}
	return results, nil
}

// Changes implements catalog.Provider: an empty, completed stream.
func (p *Provider) Changes() *catalog.Changefeed {
	return p.feed
}

// Close implements catalog.Provider. There is nothing to release.
func (p *Provider) Close() error {
	return nil
}
