package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Seed(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"corpus.dir":   "leaflets",
		"search.top_k": 25,
	})

	assert.Equal(t, "leaflets", store.GetString("corpus.dir"))
	assert.Equal(t, 25, store.GetInt("search.top_k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("a.int64", int64(7)))
	require.NoError(t, store.Set("a.float", 0.25))
	require.NoError(t, store.Set("a.bool", true))
	require.NoError(t, store.Set("a.list", []any{"pdf", 1, "txt"}))
	require.NoError(t, store.Set("a.strings", []string{"x"}))

	assert.Equal(t, 7, store.GetInt("a.int64"))
	assert.InDelta(t, 7.0, store.GetFloat("a.int64"), 0)
	assert.InDelta(t, 0.25, store.GetFloat("a.float"), 0)
	assert.Equal(t, 0, store.GetInt("a.bool"))
	assert.True(t, store.GetBool("a.bool"))
	assert.Equal(t, []string{"pdf", "txt"}, store.GetStringSlice("a.list"))
	assert.Equal(t, []string{"x"}, store.GetStringSlice("a.strings"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}
