// Package catalog defines the shared vocabulary that every catalog
// provider (filesystem, container-index, generated, composite) and the
// resolver registry build on: records, changes, the Provider interface,
// and the multicast Changefeed primitive.
package catalog

import (
	"path"
	"sort"
	"strings"

	"github.com/assetgrid/catalog/pkg/asseturi"
)

// AssetRecord is a lightweight listing entry returned by a provider query.
type AssetRecord struct {
	// URI is the record's canonical asset identifier.
	URI *asseturi.URI
	// DerivedName is the filename without its final extension.
	DerivedName string
}

// DerivedNameOf computes the derived_name for a relative path: its final
// path segment with the last extension removed.
func DerivedNameOf(relativePath string) string {
	base := path.Base(relativePath)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// SortRecords sorts records by full URI string, byte order, in place. This
// is the ordering every query operation (§4.E, §4.F, §4.G, §4.H) guarantees.
func SortRecords(records []AssetRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].URI.String() < records[j].URI.String()
	})
}

// DedupeByFingerprint removes records whose fingerprint has already been
// seen, keeping the first occurrence, then sorts the result by URI string.
// This implements the composite catalog's query semantics (§4.H).
func DedupeByFingerprint(records []AssetRecord) []AssetRecord {
	seen := make(map[asseturi.Fingerprint]struct{}, len(records))
	deduped := make([]AssetRecord, 0, len(records))
	for _, record := range records {
		fp := record.URI.Fingerprint()
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		deduped = append(deduped, record)
	}
	SortRecords(deduped)
	return deduped
}
