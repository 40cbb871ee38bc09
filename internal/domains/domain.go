// Package domains defines the capability contract between the MCP tool
// layer and the resource domains (reviews, crashes). Each domain handler
// receives its dependencies explicitly at construction; there is no global
// registry.
package domains

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plexatic/storeconnect/internal/errs"
	"github.com/plexatic/storeconnect/internal/query"
	"github.com/plexatic/storeconnect/pkg/types"
)

// Client is the resource client capability a domain handler consumes.
// *asc.Client implements it; tests substitute fakes.
type Client interface {
	// Fetch retrieves one normalized collection page. A non-empty cursor
	// on the spec identifies the page; otherwise the first page of the
	// spec's path is fetched.
	Fetch(ctx context.Context, spec query.Spec) (types.Page, error)

	// Get retrieves a single resource payload.
	Get(ctx context.Context, path string, params map[string]string) (map[string]any, error)

	// DefaultAppID is the configured fallback app, or "".
	DefaultAppID() string
}

// Handler is one resource family's tool set.
type Handler interface {
	// Category names the tool family for the catalog listing.
	Category() string

	// Tools returns the family's tool definitions paired with handlers.
	Tools() []server.ServerTool
}

// ResolveAppID picks the app to operate on: the explicit argument wins,
// then the configured default.
func ResolveAppID(c Client, argued string) (string, error) {
	if argued != "" {
		return argued, nil
	}
	if id := c.DefaultAppID(); id != "" {
		return id, nil
	}
	return "", errs.New(errs.KindConfiguration,
		"app_id is required: pass it explicitly or set APP_STORE_APP_ID")
}

// BuildResult shapes a ResultSet for the tool caller: records in order,
// paging metadata, the self link, and the exhausted flag.
func BuildResult(res types.ResultSet, endpoint string, limit int) map[string]any {
	paging := map[string]any{"total": len(res.Records)}
	if limit > 0 {
		paging["limit"] = limit
	}
	out := map[string]any{
		"data":      res.Records,
		"exhausted": res.Exhausted,
		"meta":      map[string]any{"paging": paging},
		"links":     map[string]any{"self": endpoint},
	}
	if len(res.Included) > 0 {
		out["included"] = res.Included
	}
	return out
}

// TextResult serializes v as a JSON text content result.
func TextResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// ErrorResult converts a taxonomy error into a structured tool error so
// the caller can react to the kind. Raw transport exceptions never leak:
// the client already classifies everything it returns.
func ErrorResult(err error) (*mcp.CallToolResult, error) {
	payload := map[string]any{"message": err.Error()}
	var taxErr *errs.Error
	if errors.As(err, &taxErr) {
		payload["kind"] = string(taxErr.Kind)
		if len(taxErr.Details) > 0 {
			payload["details"] = taxErr.Details
		}
	}
	raw, marshalErr := json.Marshal(map[string]any{"error": payload})
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(string(raw)), nil
}
