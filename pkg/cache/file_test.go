package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileCache(t *testing.T) *FileCache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	return fc
}

func TestFileCacheRoundTrip(t *testing.T) {
	fc := newFileCache(t)
	ctx := context.Background()

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, fc.Set(ctx, "rec", record{Name: "mouse", Count: 3}, 0))

	var got record
	require.NoError(t, fc.Get(ctx, "rec", &got))
	assert.Equal(t, record{Name: "mouse", Count: 3}, got)
}

func TestFileCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	fc, err := NewFileCache(dir)
	require.NoError(t, err)
	require.NoError(t, fc.Set(ctx, "token", "abc123", 0))
	require.NoError(t, fc.Close())

	reopened, err := NewFileCache(dir)
	require.NoError(t, err)

	var token string
	require.NoError(t, reopened.Get(ctx, "token", &token))
	assert.Equal(t, "abc123", token)
}

func TestFileCacheMiss(t *testing.T) {
	fc := newFileCache(t)
	var out string
	assert.ErrorIs(t, fc.Get(context.Background(), "absent", &out), ErrCacheMiss)
}

func TestFileCacheExpiry(t *testing.T) {
	fc := newFileCache(t)
	ctx := context.Background()

	require.NoError(t, fc.Set(ctx, "ttl", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var out string
	assert.ErrorIs(t, fc.Get(ctx, "ttl", &out), ErrCacheMiss)
}

func TestFileCacheZeroExpirationNeverExpires(t *testing.T) {
	fc := newFileCache(t)
	ctx := context.Background()

	require.NoError(t, fc.Set(ctx, "forever", "v", 0))

	var out string
	require.NoError(t, fc.Get(ctx, "forever", &out))
	assert.Equal(t, "v", out)
}

func TestFileCacheDelete(t *testing.T) {
	fc := newFileCache(t)
	ctx := context.Background()

	require.NoError(t, fc.Set(ctx, "a", 1, 0))
	require.NoError(t, fc.Set(ctx, "b", 2, 0))
	require.NoError(t, fc.Delete(ctx, "a", "missing"))

	var out int
	assert.ErrorIs(t, fc.Get(ctx, "a", &out), ErrCacheMiss)
	require.NoError(t, fc.Get(ctx, "b", &out))
}

func TestFileCacheDeleteByPattern(t *testing.T) {
	fc := newFileCache(t)
	ctx := context.Background()

	require.NoError(t, fc.Set(ctx, "forecast:req:{\"a\":1}", 1, 0))
	require.NoError(t, fc.Set(ctx, "forecast:req:{\"a\":2}", 2, 0))
	require.NoError(t, fc.Set(ctx, "auth_token", "tok", 0))

	require.NoError(t, fc.DeleteByPattern(ctx, "forecast:req:*"))

	var out int
	assert.ErrorIs(t, fc.Get(ctx, "forecast:req:{\"a\":1}", &out), ErrCacheMiss)
	assert.ErrorIs(t, fc.Get(ctx, "forecast:req:{\"a\":2}", &out), ErrCacheMiss)

	var token string
	require.NoError(t, fc.Get(ctx, "auth_token", &token))
}

func TestFileCacheCorruptEntryIsAMiss(t *testing.T) {
	fc := newFileCache(t)
	ctx := context.Background()

	require.NoError(t, fc.Set(ctx, "broken", "v", 0))

	path := filepath.Join(fc.Dir(), HashKey("broken")+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var out string
	assert.ErrorIs(t, fc.Get(ctx, "broken", &out), ErrCacheMiss)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt entries are removed on read")
}

func TestFileCacheExists(t *testing.T) {
	fc := newFileCache(t)
	ctx := context.Background()

	ok, err := fc.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fc.Set(ctx, "yes", 1, 0))
	ok, err = fc.Exists(ctx, "nope", "yes")
	require.NoError(t, err)
	assert.True(t, ok)
}
