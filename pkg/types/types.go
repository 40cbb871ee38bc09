package types

import "strings"

// =============================================================================
// CORE API TYPES (storeconnect)
// =============================================================================

// Record is a single resource as returned by the App Store Connect API.
// The schema is opaque to this layer; fields are reached by dotted paths
// (e.g. "attributes.rating") declared by the caller.
type Record map[string]any

// Lookup resolves a dotted path into the record. It returns false when any
// segment is missing, not an object, or resolves to an explicit null.
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Page is one normalized page of a paginated collection response.
type Page struct {
	// Records holds the page's primary resources in API order.
	Records []Record `json:"data"`

	// Included holds related resources requested via include parameters.
	Included []Record `json:"included,omitempty"`

	// NextCursor is the opaque pagination token, passed through verbatim
	// from the API. Empty means this was the last page.
	NextCursor string `json:"next_cursor,omitempty"`
}

// ResultSet is the outcome of a pagination run after post-filtering.
type ResultSet struct {
	// Records are the surviving records, in fetch order, truncated to the
	// requested target count.
	Records []Record `json:"data"`

	// Included aggregates related resources across all fetched pages.
	Included []Record `json:"included,omitempty"`

	// Exhausted is true when the source ran out of pages before the target
	// count was reached.
	Exhausted bool `json:"exhausted"`
}
