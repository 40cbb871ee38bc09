// Package paginate walks a cursor-chained collection until a target number
// of post-filtered records is collected or the source runs out of pages.
package paginate

import (
	"context"

	"github.com/plexatic/storeconnect/internal/errs"
	"github.com/plexatic/storeconnect/internal/filter"
	"github.com/plexatic/storeconnect/internal/query"
	"github.com/plexatic/storeconnect/pkg/types"
)

// DefaultMaxPages bounds a single collection run. Cursors form a linear
// chain, so this is the only guard against a filter that rejects nearly
// everything in a very large remote collection.
const DefaultMaxPages = 50

// Fetcher fetches one page for a request descriptor. A non-empty
// spec.Cursor means "fetch that page", otherwise the first page of
// spec.Path is fetched.
type Fetcher interface {
	Fetch(ctx context.Context, spec query.Spec) (types.Page, error)
}

// Options configures a collection run.
type Options struct {
	// Target is the number of post-filter records to collect. Zero or
	// negative means "everything until the source is exhausted".
	Target int

	// MaxPages caps fetch iterations; DefaultMaxPages when unset.
	MaxPages int
}

// Collect runs the pagination loop: fetch, filter, accumulate, follow the
// cursor. It stops as soon as Target survivors are collected (truncating
// the final batch, without fetching further pages) or the cursor chain
// ends. A nil engine disables post-filtering.
//
// When MaxPages is exceeded before either stop condition, Collect returns
// a pagination-limit error and discards the partial results: a truncated
// filtered set would mislead the caller about total availability.
func Collect(ctx context.Context, f Fetcher, spec query.Spec, eng *filter.Engine, opts Options) (types.ResultSet, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	target := opts.Target

	var collected, included []types.Record
	for page := 1; page <= maxPages; page++ {
		pg, err := f.Fetch(ctx, spec)
		if err != nil {
			return types.ResultSet{}, err
		}
		included = append(included, pg.Included...)

		survivors := pg.Records
		if eng != nil {
			survivors = eng.ApplyAll(survivors)
		}
		if target > 0 && len(collected)+len(survivors) > target {
			survivors = survivors[:target-len(collected)]
		}
		collected = append(collected, survivors...)

		if target > 0 && len(collected) >= target {
			return types.ResultSet{Records: collected, Included: included}, nil
		}
		if pg.NextCursor == "" {
			return types.ResultSet{Records: collected, Included: included, Exhausted: true}, nil
		}
		spec = spec.WithCursor(pg.NextCursor)
	}

	return types.ResultSet{}, errs.New(errs.KindPaginationLimit,
		"pagination stopped after %d pages of %s without reaching the requested count", maxPages, spec.Path).
		With("max_pages", maxPages).
		With("items_collected", len(collected)).
		With("target", target)
}
