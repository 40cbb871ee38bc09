package asc

import (
	"github.com/plexatic/storeconnect/internal/errs"
	"github.com/plexatic/storeconnect/pkg/types"
)

// Normalize converts a raw collection payload into a Page. The payload
// must carry a "data" array: an empty array is a valid empty page, but a
// missing or non-array "data" marker means the remote shape changed and
// is reported as a malformed response. The next-page link passes through
// verbatim as the opaque cursor.
func Normalize(raw map[string]any) (types.Page, error) {
	dataVal, ok := raw["data"]
	if !ok {
		return types.Page{}, errs.New(errs.KindMalformedResponse,
			"response is missing the data array")
	}
	items, ok := dataVal.([]any)
	if !ok {
		return types.Page{}, errs.New(errs.KindMalformedResponse,
			"response data is %T, expected an array", dataVal)
	}

	page := types.Page{Records: toRecords(items)}

	if includedVal, ok := raw["included"].([]any); ok {
		page.Included = toRecords(includedVal)
	}
	if links, ok := raw["links"].(map[string]any); ok {
		if next, ok := links["next"].(string); ok {
			page.NextCursor = next
		}
	}
	return page, nil
}

func toRecords(items []any) []types.Record {
	out := make([]types.Record, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, types.Record(obj))
		}
	}
	return out
}
