package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plexatic/storeconnect/internal/asc"
	"github.com/plexatic/storeconnect/internal/cache"
	"github.com/plexatic/storeconnect/internal/config"
	"github.com/plexatic/storeconnect/internal/domains/crashes"
	"github.com/plexatic/storeconnect/internal/domains/reviews"
	"github.com/plexatic/storeconnect/internal/mcp"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the MCP (Model Context Protocol) server.

The server communicates over stdin/stdout using JSON-RPC, so it is meant
to be launched by an MCP host (Claude Desktop, Cursor, ...) rather than
interactively. All diagnostics go to stderr.

Credentials are read from the APP_STORE_* environment variables; tuning
(timeouts, pagination caps, response cache) can come from a YAML file:

  storeconnect serve --config /etc/storeconnect.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to YAML config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Log)

	tokens, err := asc.NewTokenSource(asc.KeyConfig{
		KeyID:          cfg.KeyID,
		IssuerID:       cfg.IssuerID,
		PrivateKeyPath: cfg.PrivateKeyPath,
		KeyType:        cfg.KeyType,
		Subject:        cfg.Subject,
		Scope:          cfg.Scope,
	})
	if err != nil {
		return err
	}

	var respCache asc.ResponseCache
	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Purge(); err != nil {
			log.Warn("purging stale cache entries failed", "error", err)
		}
		respCache = store
		log.Debug("response cache enabled", "path", cfg.Cache.Path, "ttl_seconds", cfg.Cache.TTLSeconds)
	}

	client := asc.NewClient(tokens, asc.Options{
		AppID:      cfg.AppID,
		Timeout:    time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.HTTP.MaxRetries,
		Cache:      respCache,
		Logger:     log,
	})

	srv := mcp.New(buildVersion, log,
		reviews.New(client, cfg.Pagination.MaxPages, log),
		crashes.New(client, cfg.Pagination.MaxPages, log),
	)

	log.Info("starting MCP server", "version", buildVersion)
	if err := mcp.Serve(srv); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// newLogger builds the process logger. Always writes to stderr because
// stdout carries the protocol stream.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
