package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexatic/storeconnect/internal/errs"
)

func TestSameFilterKeyKeepsLastValue(t *testing.T) {
	spec, err := New("/v1/apps/123/customerReviews").
		WithFilter("rating", "5").
		WithFilter("rating", "4").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "4", spec.Params["filter[rating]"])
}

func TestBuilderIsImmutablePerCall(t *testing.T) {
	base := New("/v1/apps/123/customerReviews").WithFilter("territory", "USA")

	a := base.WithFilter("rating", "5")
	b := base.WithFilter("rating", "1")

	specA, err := a.Build()
	require.NoError(t, err)
	specB, err := b.Build()
	require.NoError(t, err)
	specBase, err := base.Build()
	require.NoError(t, err)

	assert.Equal(t, "5", specA.Params["filter[rating]"])
	assert.Equal(t, "1", specB.Params["filter[rating]"])
	_, ok := specBase.Params["filter[rating]"]
	assert.False(t, ok, "base builder must not see derived filters")
}

func TestLimitClampsToMaxPageSize(t *testing.T) {
	spec, err := New("/v1/test").WithLimit(5000).Build()

	require.NoError(t, err)
	assert.Equal(t, "200", spec.Params["limit"])
}

func TestNonPositiveLimitFailsAtBuild(t *testing.T) {
	for _, n := range []int{0, -10} {
		_, err := New("/v1/test").WithLimit(n).Build()
		require.Error(t, err)
		assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
	}
}

func TestAllowListRejectsUnknownFilterNamingTheKey(t *testing.T) {
	_, err := New("/v1/apps/123/customerReviews").
		WithAllowedFilters("rating", "territory", "appStoreVersion").
		WithFilter("deviceModel", "iPhone15,2").
		Build()

	require.Error(t, err)
	assert.Equal(t, errs.KindUnsupportedFilter, errs.KindOf(err))
	assert.Contains(t, err.Error(), "deviceModel")

	var taxErr *errs.Error
	require.ErrorAs(t, err, &taxErr)
	assert.Equal(t, "deviceModel", taxErr.Details["filter"])
}

func TestAllowListPermitsKnownFilters(t *testing.T) {
	spec, err := New("/v1/apps/123/customerReviews").
		WithAllowedFilters("rating", "territory").
		WithFilterValues("territory", []string{"USA", "GBR"}).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "USA,GBR", spec.Params["filter[territory]"])
}

func TestBuildAssemblesAllParams(t *testing.T) {
	spec, err := New("/v1/apps/123/customerReviews").
		WithFilter("rating", "5").
		WithSort("-createdDate").
		WithLimit(25).
		WithFields("customerReviews", []string{"rating", "title", "body"}).
		WithInclude([]string{"response"}).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "/v1/apps/123/customerReviews", spec.Path)
	assert.Equal(t, "5", spec.Params["filter[rating]"])
	assert.Equal(t, "-createdDate", spec.Params["sort"])
	assert.Equal(t, "25", spec.Params["limit"])
	assert.Equal(t, "rating,title,body", spec.Params["fields[customerReviews]"])
	assert.Equal(t, "response", spec.Params["include"])
	assert.Empty(t, spec.Cursor)
}

func TestWithCursorOnSpecLeavesOriginalUntouched(t *testing.T) {
	spec, err := New("/v1/test").WithLimit(10).Build()
	require.NoError(t, err)

	next := spec.WithCursor("https://api.example.com/v1/test?cursor=abc")

	assert.Empty(t, spec.Cursor)
	assert.Equal(t, "https://api.example.com/v1/test?cursor=abc", next.Cursor)
	assert.Equal(t, spec.Path, next.Path)
}

func TestSpecEncodeIsCanonical(t *testing.T) {
	spec, err := New("/v1/apps/123/customerReviews").
		WithFilter("territory", "USA,GBR").
		WithFilter("rating", "5").
		WithSort("-createdDate").
		WithLimit(25).
		Build()
	require.NoError(t, err)

	// Keys are sorted and values escaped, so the same spec always yields
	// the same cache key.
	assert.Equal(t,
		"filter%5Brating%5D=5&filter%5Bterritory%5D=USA%2CGBR&limit=25&sort=-createdDate",
		spec.Encode())
	assert.Empty(t, (Spec{}).Encode())
}
