package asc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexatic/storeconnect/internal/errs"
)

func TestNormalizeEmptyPageIsValid(t *testing.T) {
	page, err := Normalize(map[string]any{
		"data":  []any{},
		"links": map[string]any{},
	})

	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Empty(t, page.NextCursor)
}

func TestNormalizeMissingDataIsMalformed(t *testing.T) {
	_, err := Normalize(map[string]any{
		"links": map[string]any{"self": "/v1/test"},
	})

	require.Error(t, err)
	assert.Equal(t, errs.KindMalformedResponse, errs.KindOf(err))
}

func TestNormalizeNonArrayDataIsMalformed(t *testing.T) {
	_, err := Normalize(map[string]any{
		"data": map[string]any{"id": "1"},
	})

	require.Error(t, err)
	assert.Equal(t, errs.KindMalformedResponse, errs.KindOf(err))
}

func TestNormalizePassesCursorVerbatim(t *testing.T) {
	next := "https://api.appstoreconnect.apple.com/v1/apps/1/customerReviews?cursor=AQ.AM7HXQ"
	page, err := Normalize(map[string]any{
		"data": []any{
			map[string]any{"id": "r1", "type": "customerReviews"},
			map[string]any{"id": "r2", "type": "customerReviews"},
		},
		"included": []any{
			map[string]any{"id": "resp1", "type": "customerReviewResponses"},
		},
		"links": map[string]any{"next": next},
	})

	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "r1", page.Records[0]["id"])
	require.Len(t, page.Included, 1)
	assert.Equal(t, next, page.NextCursor)
}

func TestNormalizeLastPageHasNoCursor(t *testing.T) {
	page, err := Normalize(map[string]any{
		"data":  []any{map[string]any{"id": "r1"}},
		"links": map[string]any{"self": "/v1/test"},
	})

	require.NoError(t, err)
	assert.Empty(t, page.NextCursor)
}
