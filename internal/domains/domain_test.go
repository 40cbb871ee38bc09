package domains

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexatic/storeconnect/internal/errs"
	"github.com/plexatic/storeconnect/internal/query"
	"github.com/plexatic/storeconnect/pkg/types"
)

func TestBuildResultShape(t *testing.T) {
	res := types.ResultSet{
		Records:   []types.Record{{"id": "r1"}, {"id": "r2"}},
		Included:  []types.Record{{"id": "i1"}},
		Exhausted: true,
	}

	out := BuildResult(res, "/v1/apps/1/customerReviews", 10)

	assert.Equal(t, res.Records, out["data"])
	assert.Equal(t, true, out["exhausted"])
	meta := out["meta"].(map[string]any)
	paging := meta["paging"].(map[string]any)
	assert.Equal(t, 2, paging["total"])
	assert.Equal(t, 10, paging["limit"])
	links := out["links"].(map[string]any)
	assert.Equal(t, "/v1/apps/1/customerReviews", links["self"])
	assert.Equal(t, res.Included, out["included"])
}

func TestBuildResultOmitsEmptyIncluded(t *testing.T) {
	out := BuildResult(types.ResultSet{}, "/v1/test", 0)

	_, ok := out["included"]
	assert.False(t, ok)
	meta := out["meta"].(map[string]any)
	paging := meta["paging"].(map[string]any)
	_, ok = paging["limit"]
	assert.False(t, ok)
}

func TestErrorResultCarriesKindAndDetails(t *testing.T) {
	err := errs.New(errs.KindUnsupportedFilter, "filter %q is not supported", "bogus").
		With("filter", "bogus")

	res, callErr := ErrorResult(err)
	require.NoError(t, callErr)
	require.True(t, res.IsError)

	text := res.Content[0].(mcp.TextContent)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))

	errObj := payload["error"].(map[string]any)
	assert.Equal(t, "unsupported_filter", errObj["kind"])
	details := errObj["details"].(map[string]any)
	assert.Equal(t, "bogus", details["filter"])
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"name":    "value",
		"count":   7.0,
		"ratings": []any{"4", 5.0},
		"single":  "USA",
	}

	assert.Equal(t, "value", StringArg(args, "name", "def"))
	assert.Equal(t, "def", StringArg(args, "missing", "def"))
	assert.Equal(t, 7, IntArg(args, "count", 1))
	assert.Equal(t, 1, IntArg(args, "missing", 1))
	assert.Equal(t, []string{"4", "5"}, StringSliceArg(args, "ratings"))
	assert.Equal(t, []string{"USA"}, StringSliceArg(args, "single"))
	assert.Nil(t, StringSliceArg(args, "missing"))

	n, ok := NumberArg(args, "count")
	require.True(t, ok)
	assert.Equal(t, 7.0, n)
	_, ok = NumberArg(args, "missing")
	assert.False(t, ok)
}

type appIDClient struct{ id string }

func (c appIDClient) Fetch(context.Context, query.Spec) (types.Page, error) {
	return types.Page{}, nil
}

func (c appIDClient) Get(context.Context, string, map[string]string) (map[string]any, error) {
	return nil, nil
}

func (c appIDClient) DefaultAppID() string { return c.id }

func TestResolveAppID(t *testing.T) {
	id, err := ResolveAppID(appIDClient{id: "default"}, "explicit")
	require.NoError(t, err)
	assert.Equal(t, "explicit", id)

	id, err = ResolveAppID(appIDClient{id: "default"}, "")
	require.NoError(t, err)
	assert.Equal(t, "default", id)

	_, err = ResolveAppID(appIDClient{}, "")
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}
