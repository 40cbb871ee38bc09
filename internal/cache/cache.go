// Package cache is an optional on-disk TTL cache for GET responses. App
// Store Connect enforces hourly rate limits per key; caching identical
// requests between agent calls keeps repeated tool invocations cheap.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache stores response bodies keyed by request URL with a fixed TTL.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open creates or opens the cache database at path.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	// Connection parameters for better concurrency
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // Keep it simple to avoid locks

	c := &Cache{db: db, ttl: ttl, now: time.Now}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		url TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns the cached body for url if present and fresh. Stale entries
// are evicted on read.
func (c *Cache) Get(url string) ([]byte, bool) {
	var body []byte
	var fetchedAt int64
	err := c.db.QueryRow(
		"SELECT body, fetched_at FROM responses WHERE url = ?", url,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	if c.now().Unix()-fetchedAt > int64(c.ttl.Seconds()) {
		c.db.Exec("DELETE FROM responses WHERE url = ?", url)
		return nil, false
	}
	return body, true
}

// Put stores or refreshes the body for url.
func (c *Cache) Put(url string, body []byte) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO responses (url, body, fetched_at) VALUES (?, ?, ?)",
		url, body, c.now().Unix(),
	)
	return err
}

// Purge removes every entry older than the TTL.
func (c *Cache) Purge() error {
	cutoff := c.now().Unix() - int64(c.ttl.Seconds())
	_, err := c.db.Exec("DELETE FROM responses WHERE fetched_at < ?", cutoff)
	return err
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
