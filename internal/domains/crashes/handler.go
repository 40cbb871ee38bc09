// Package crashes exposes TestFlight beta crash feedback as MCP tools.
package crashes

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
	resourceType = "betaFeedbackCrashSubmissions"
	defaultSort  = "-createdDate"

	defaultListLimit   = query.DefaultPageSize
	defaultSearchLimit = query.MaxPageSize
)

// crashFields is the attribute set requested for every submission.
var crashFields = []string{
	"createdDate",
	"comment",
	"email",
	"deviceModel",
	"osVersion",
	"locale",
	"timeZone",
	"architecture",
	"connectionType",
	"pairedAppleWatch",
	"appUptimeInMilliseconds",
	"diskBytesAvailable",
	"diskBytesTotal",
	"batteryPercentage",
	"screenWidthInPoints",
	"screenHeightInPoints",
	"appPlatform",
	"devicePlatform",
	"deviceFamily",
	"buildBundleId",
	"crashLog",
	"build",
	"tester",
}

// serverFilterKeys is the allow-list of filters the API supports for
// crash submissions.
var serverFilterKeys = []string{
	"deviceModel",
	"osVersion",
	"appPlatform",
	"devicePlatform",
	"build",
	"tester",
}

// Handler serves the crashes tool family.
type Handler struct {
	client   domains.Client
	maxPages int
	log      *slog.Logger
}

// New builds a crashes handler with explicit dependencies.
func New(client domains.Client, maxPages int, log *slog.Logger) *Handler {
	return &Handler{client: client, maxPages: maxPages, log: log}
}

// Category implements domains.Handler.
func (h *Handler) Category() string { return "TestFlight" }

// Tools implements domains.Handler.
func (h *Handler) Tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listTool(), Handler: h.handleList},
		{Tool: searchTool(), Handler: h.handleSearch},
		{Tool: getTool(), Handler: h.handleGet},
		{Tool: logTool(), Handler: h.handleLog},
	}
}

func endpoint(appID string) string {
	return fmt.Sprintf("/v1/apps/%s/betaFeedbackCrashSubmissions", appID)
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
		WithFilterValues("deviceModel", domains.StringSliceArg(args, "device_model")).
		WithFilterValues("osVersion", domains.StringSliceArg(args, "os_version")).
		WithFilterValues("appPlatform", domains.StringSliceArg(args, "app_platform")).
		WithFilterValues("devicePlatform", domains.StringSliceArg(args, "device_platform")).
		WithFilterValues("build", domains.StringSliceArg(args, "build_id")).
		WithFilterValues("tester", domains.StringSliceArg(args, "tester_id")).
		WithSort(domains.StringArg(args, "sort", defaultSort)).
		WithLimit(limit).
		WithFields(resourceType, crashFields).
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

func (h *Handler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	appID, err := domains.ResolveAppID(h.client, domains.StringArg(args, "app_id", ""))
	if err != nil {
		return domains.ErrorResult(err)
	}
	path := endpoint(appID)
	limit := domains.IntArg(args, "limit", defaultSearchLimit)

	// deviceModel and osVersion go server-side when exact values are
	// given; version ranges and substrings cannot be pushed down.
	spec, err := query.New(path).
		WithAllowedFilters(serverFilterKeys...).
		WithFilterValues("appPlatform", domains.StringSliceArg(args, "app_platform")).
		WithFilterValues("deviceModel", domains.StringSliceArg(args, "device_model")).
		WithFilterValues("osVersion", domains.StringSliceArg(args, "os_versions")).
		WithSort(domains.StringArg(args, "sort", defaultSort)).
		WithLimit(query.MaxPageSize).
		WithFields(resourceType, crashFields).
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

	h.log.Debug("crashes search finished",
		"app_id", appID,
		"stages", len(stages),
		"collected", len(res.Records),
		"exhausted", res.Exhausted,
	)
	return domains.TextResult(domains.BuildResult(res, path, limit))
}

func searchStages(args map[string]any) ([]filter.Stage, error) {
	var stages []filter.Stage

	// TestFlight feedback is overwhelmingly iOS; matching the historical
	// default keeps unfiltered searches focused.
	devicePlatforms := domains.StringSliceArg(args, "device_platform")
	if devicePlatforms == nil {
		devicePlatforms = []string{"IOS"}
	}
	stages = append(stages, filter.Equals("attributes.devicePlatform", devicePlatforms...))

	if v := domains.StringArg(args, "os_min_version", ""); v != "" {
		stages = append(stages, filter.MinVersion("attributes.osVersion", v))
	}
	if v := domains.StringArg(args, "os_max_version", ""); v != "" {
		stages = append(stages, filter.MaxVersion("attributes.osVersion", v))
	}
	if vals := domains.StringSliceArg(args, "device_model_contains"); len(vals) > 0 {
		stages = append(stages, filter.Contains("attributes.deviceModel", vals...))
	}

	dateStages, err := domains.DateWindowStages("attributes.createdDate", args)
	if err != nil {
		return nil, err
	}
	return append(stages, dateStages...), nil
}

func (h *Handler) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	submissionID := domains.StringArg(args, "submission_id", "")
	if submissionID == "" {
		return domains.ErrorResult(errs.New(errs.KindConfiguration, "submission_id is required"))
	}

	spec, err := query.New(fmt.Sprintf("/v1/betaFeedbackCrashSubmissions/%s", submissionID)).
		WithFields(resourceType, crashFields).
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

func (h *Handler) handleLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	submissionID := domains.StringArg(args, "submission_id", "")
	if submissionID == "" {
		return domains.ErrorResult(errs.New(errs.KindConfiguration, "submission_id is required"))
	}

	raw, err := h.client.Get(ctx,
		fmt.Sprintf("/v1/betaFeedbackCrashSubmissions/%s/crashLog", submissionID),
		map[string]string{"fields[betaCrashLogs]": "logText"},
	)
	if err != nil {
		return domains.ErrorResult(err)
	}
	return domains.TextResult(raw)
}
