package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "cache", "responses.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutAndGetRoundTrip(t *testing.T) {
	c := openTestCache(t, time.Hour)

	require.NoError(t, c.Put("https://api.example.com/v1/test", []byte(`{"data":[]}`)))

	body, ok := c.Get("https://api.example.com/v1/test")
	require.True(t, ok)
	assert.Equal(t, `{"data":[]}`, string(body))
}

func TestGetMissesUnknownURL(t *testing.T) {
	c := openTestCache(t, time.Hour)

	_, ok := c.Get("https://api.example.com/v1/unknown")
	assert.False(t, ok)
}

func TestPutOverwritesExistingEntry(t *testing.T) {
	c := openTestCache(t, time.Hour)
	url := "https://api.example.com/v1/test"

	require.NoError(t, c.Put(url, []byte("old")))
	require.NoError(t, c.Put(url, []byte("new")))

	body, ok := c.Get(url)
	require.True(t, ok)
	assert.Equal(t, "new", string(body))
}

func TestStaleEntryIsEvicted(t *testing.T) {
	c := openTestCache(t, time.Minute)
	url := "https://api.example.com/v1/test"

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(url, []byte("body")))

	now = base.Add(2 * time.Minute)
	_, ok := c.Get(url)
	assert.False(t, ok)

	// Evicted, not just hidden: a fresh clock still misses.
	now = base
	_, ok = c.Get(url)
	assert.False(t, ok)
}

func TestPurgeDropsOnlyExpiredEntries(t *testing.T) {
	c := openTestCache(t, time.Minute)

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put("old", []byte("old")))
	now = base.Add(2 * time.Minute)
	require.NoError(t, c.Put("fresh", []byte("fresh")))

	require.NoError(t, c.Purge())

	_, ok := c.Get("old")
	assert.False(t, ok)
	_, ok = c.Get("fresh")
	assert.True(t, ok)
}
