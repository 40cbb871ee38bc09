// Package reviews exposes App Store customer reviews as MCP tools.
package reviews

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plexatic/storeconnect/internal/domains"
	"github.com/plexatic/storeconnect/internal/errs"
	"github.com/plexatic/storeconnect/internal/filter"
	"github.com/plexatic/storeconnect/internal/paginate"
	"github.com/plexatic/storeconnect/internal/query"
)

const (
	resourceType = "customerReviews"
	defaultSort  = "-createdDate"

	defaultListLimit   = query.DefaultPageSize
	defaultSearchLimit = query.MaxPageSize
)

// reviewFields is the attribute set requested for every review.
var reviewFields = []string{
	"rating",
	"title",
	"body",
	"reviewerNickname",
	"createdDate",
	"territory",
}

// serverFilterKeys is the allow-list of filters the API supports for
// customer reviews. Anything else must go through the post-filter engine.
var serverFilterKeys = []string{"rating", "territory", "appStoreVersion"}

// Handler serves the reviews tool family.
type Handler struct {
	client   domains.Client
	maxPages int
	log      *slog.Logger
}

// New builds a reviews handler with explicit dependencies.
func New(client domains.Client, maxPages int, log *slog.Logger) *Handler {
	return &Handler{client: client, maxPages: maxPages, log: log}
}

// Category implements domains.Handler.
func (h *Handler) Category() string { return "App Store" }

// Tools implements domains.Handler.
func (h *Handler) Tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listTool(), Handler: h.handleList},
		{Tool: getTool(), Handler: h.handleGet},
		{Tool: searchTool(), Handler: h.handleSearch},
	}
}

func endpoint(appID string) string {
	return fmt.Sprintf("/v1/apps/%s/customerReviews", appID)
}

func (h *Handler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	appID, err := domains.ResolveAppID(h.client, domains.StringArg(args, "app_id", ""))
	if err != nil {
		return domains.ErrorResult(err)
	}
	path := endpoint(appID)
	limit := domains.IntArg(args, "limit", defaultListLimit)

	spec, err := query.New(path).
		WithAllowedFilters(serverFilterKeys...).
		WithFilterValues("rating", domains.StringSliceArg(args, "rating")).
		WithFilterValues("territory", domains.StringSliceArg(args, "territory")).
		WithFilterValues("appStoreVersion", domains.StringSliceArg(args, "app_store_version")).
		WithSort(domains.StringArg(args, "sort", defaultSort)).
		WithLimit(limit).
		WithFields(resourceType, reviewFields).
		WithInclude(domains.StringSliceArg(args, "include")).
		Build()
	if err != nil {
		return domains.ErrorResult(err)
	}

	res, err := paginate.Collect(ctx, h.client, spec, nil, paginate.Options{
		Target:   limit,
		MaxPages: h.maxPages,
	})
	if err != nil {
		return domains.ErrorResult(err)
	}
	return domains.TextResult(domains.BuildResult(res, path, limit))
}

func (h *Handler) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	reviewID := domains.StringArg(args, "review_id", "")
	if reviewID == "" {
		return domains.ErrorResult(errs.New(errs.KindConfiguration, "review_id is required"))
	}

	spec, err := query.New(fmt.Sprintf("/v1/customerReviews/%s", reviewID)).
		WithFields(resourceType, reviewFields).
		WithInclude(domains.StringSliceArg(args, "include")).
		Build()
	if err != nil {
		return domains.ErrorResult(err)
	}

	raw, err := h.client.Get(ctx, spec.Path, spec.Params)
	if err != nil {
		return domains.ErrorResult(err)
	}
	return domains.TextResult(raw)
}

func (h *Handler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	appID, err := domains.ResolveAppID(h.client, domains.StringArg(args, "app_id", ""))
	if err != nil {
		return domains.ErrorResult(err)
	}
	path := endpoint(appID)
	limit := domains.IntArg(args, "limit", defaultSearchLimit)

	// Server-side filters narrow the payload; everything else is applied
	// by the post-filter engine below.
	spec, err := query.New(path).
		WithAllowedFilters(serverFilterKeys...).
		WithFilterValues("rating", domains.StringSliceArg(args, "rating")).
		WithFilterValues("territory", domains.StringSliceArg(args, "territory")).
		WithSort(domains.StringArg(args, "sort", defaultSort)).
		WithLimit(query.MaxPageSize).
		WithFields(resourceType, reviewFields).
		WithInclude(domains.StringSliceArg(args, "include")).
		Build()
	if err != nil {
		return domains.ErrorResult(err)
	}

	stages, err := searchStages(args)
	if err != nil {
		return domains.ErrorResult(err)
	}

	res, err := paginate.Collect(ctx, h.client, spec, filter.NewEngine(stages...), paginate.Options{
		Target:   limit,
		MaxPages: h.maxPages,
	})
	if err != nil {
		return domains.ErrorResult(err)
	}

	h.log.Debug("reviews search finished",
		"app_id", appID,
		"stages", len(stages),
		"collected", len(res.Records),
		"exhausted", res.Exhausted,
	)
	return domains.TextResult(domains.BuildResult(res, path, limit))
}

func searchStages(args map[string]any) ([]filter.Stage, error) {
	var stages []filter.Stage

	if min, ok := domains.NumberArg(args, "min_rating"); ok {
		stages = append(stages, filter.MinNumber("attributes.rating", min))
	}
	if max, ok := domains.NumberArg(args, "max_rating"); ok {
		stages = append(stages, filter.MaxNumber("attributes.rating", max))
	}
	if vals := domains.StringSliceArg(args, "territory_contains"); len(vals) > 0 {
		stages = append(stages, filter.Contains("attributes.territory", vals...))
	}
	if vals := domains.StringSliceArg(args, "body_contains"); len(vals) > 0 {
		stages = append(stages, filter.Contains("attributes.body", vals...))
	}
	if vals := domains.StringSliceArg(args, "title_contains"); len(vals) > 0 {
		stages = append(stages, filter.Contains("attributes.title", vals...))
	}

	dateStages, err := domains.DateWindowStages("attributes.createdDate", args)
	if err != nil {
		return nil, err
	}
	return append(stages, dateStages...), nil
}
