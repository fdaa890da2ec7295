package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayeredWriteThrough(t *testing.T) {
	file, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	lc := NewLayeredCache(file)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "k", "hello", 0))

	// Both layers must hold the value.
	var fromFile string
	require.NoError(t, file.Get(ctx, "k", &fromFile))
	assert.Equal(t, "hello", fromFile)

	var fromLayered string
	require.NoError(t, lc.Get(ctx, "k", &fromLayered))
	assert.Equal(t, "hello", fromLayered)
}

func TestLayeredBackfillsMemoryFromDurable(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	seed, err := NewFileCache(dir)
	require.NoError(t, err)
	require.NoError(t, seed.Set(ctx, "restored", map[string]int{"n": 7}, 0))

	file, err := NewFileCache(dir)
	require.NoError(t, err)
	lc := NewLayeredCache(file)
	defer lc.Close()

	var out map[string]int
	require.NoError(t, lc.Get(ctx, "restored", &out))
	assert.Equal(t, 7, out["n"])

	// Second read is served from memory even if the file vanishes.
	require.NoError(t, file.Delete(ctx, "restored"))
	var again map[string]int
	require.NoError(t, lc.Get(ctx, "restored", &again))
	assert.Equal(t, 7, again["n"])
}

func TestLayeredDeleteClearsBothLayers(t *testing.T) {
	file, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	lc := NewLayeredCache(file)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "k", 1, 0))
	require.NoError(t, lc.Delete(ctx, "k"))

	var out int
	assert.ErrorIs(t, lc.Get(ctx, "k", &out), ErrCacheMiss)
}
