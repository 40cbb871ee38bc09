// Package config loads server configuration from an optional YAML file and
// the APP_STORE_* environment variables. Environment variables win over
// the file, matching how the credentials are usually injected by the MCP
// host configuration.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plexatic/storeconnect/internal/errs"
)

// Config is the fully resolved server configuration.
type Config struct {
	// App Store Connect API key. Set via environment variables.
	KeyID          string `yaml:"-"`
	IssuerID       string `yaml:"-"`
	PrivateKeyPath string `yaml:"-"`
	KeyType        string `yaml:"-"`
	Subject        string `yaml:"-"`
	Scope          []string `yaml:"-"`

	// AppID is the default app when a tool call omits app_id.
	AppID string `yaml:"app_id"`

	HTTP       HTTPConfig       `yaml:"http"`
	Pagination PaginationConfig `yaml:"pagination"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
}

// HTTPConfig tunes the resource client.
type HTTPConfig struct {
	// TimeoutSeconds bounds each page fetch.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxRetries is the number of extra attempts on transient failures.
	MaxRetries int `yaml:"max_retries"`
}

// PaginationConfig bounds collection runs.
type PaginationConfig struct {
	// MaxPages caps fetch iterations per tool call.
	MaxPages int `yaml:"max_pages"`
}

// CacheConfig controls the on-disk response cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// LogConfig controls structured logging. Logs always go to stderr; stdout
// carries the MCP protocol.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

func defaults() Config {
	return Config{
		HTTP:       HTTPConfig{TimeoutSeconds: 30, MaxRetries: 1},
		Pagination: PaginationConfig{MaxPages: 50},
		Cache:      CacheConfig{Path: defaultCachePath(), TTLSeconds: 300},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "storeconnect-cache.db"
	}
	return home + "/.storeconnect/cache/responses.db"
}

// Load resolves the configuration: defaults, then the YAML file at path
// (if non-empty), then environment variables. It validates that the key
// credentials are present.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errs.Wrap(errs.KindConfiguration, err, "cannot read config file %s", path)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errs.Wrap(errs.KindConfiguration, err, "invalid config file %s", path)
		}
	}

	cfg.KeyID = os.Getenv("APP_STORE_KEY_ID")
	cfg.IssuerID = os.Getenv("APP_STORE_ISSUER_ID")
	cfg.PrivateKeyPath = os.Getenv("APP_STORE_PRIVATE_KEY_PATH")
	cfg.KeyType = os.Getenv("APP_STORE_KEY_TYPE")
	cfg.Subject = os.Getenv("APP_STORE_SUBJECT")
	if scope := os.Getenv("APP_STORE_SCOPE"); scope != "" {
		for _, s := range strings.Split(scope, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Scope = append(cfg.Scope, s)
			}
		}
	}
	if appID := os.Getenv("APP_STORE_APP_ID"); appID != "" {
		cfg.AppID = appID
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	if c.KeyID == "" {
		missing = append(missing, "APP_STORE_KEY_ID")
	}
	if c.IssuerID == "" {
		missing = append(missing, "APP_STORE_ISSUER_ID")
	}
	if c.PrivateKeyPath == "" {
		missing = append(missing, "APP_STORE_PRIVATE_KEY_PATH")
	}
	if len(missing) > 0 {
		return errs.New(errs.KindConfiguration,
			"missing required environment variables: %s", strings.Join(missing, ", ")).
			With("missing_variables", missing)
	}

	if c.HTTP.TimeoutSeconds <= 0 {
		return errs.New(errs.KindConfiguration, "http.timeout_seconds must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		return errs.New(errs.KindConfiguration, "http.max_retries cannot be negative")
	}
	if c.Pagination.MaxPages <= 0 {
		return errs.New(errs.KindConfiguration, "pagination.max_pages must be positive")
	}
	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		return errs.New(errs.KindConfiguration, "cache.ttl_seconds must be positive when the cache is enabled")
	}
	return nil
}
