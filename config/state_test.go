package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("leads-filters")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("leads-filters", `{"searchTerm":"acme"}`))
	require.NoError(t, store.Set("other", "1"))

	got, err := store.Get("leads-filters")
	require.NoError(t, err)
	assert.Equal(t, `{"searchTerm":"acme"}`, got)

	// A second store over the same directory sees the same data.
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err = reopened.Get("other")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Delete("k"))
	require.NoError(t, store.Delete("missing"))

	_, err = store.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreCorruptFile(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err = store.Get("k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	// The persisted wrapper swallows the failure and uses the default.
	assert.Equal(t, "fallback", Read(store, "k", "fallback"))
}

func TestFileStoreLeavesNoTempFile(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
