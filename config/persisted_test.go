package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore simulates an unavailable or full backend.
type failingStore struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStore) Get(string) (string, error) { return "", f.getErr }
func (f *failingStore) Set(string, string) error {
	f.sets++
	return f.setErr
}
func (f *failingStore) Delete(string) error { return nil }

type profile struct {
	Name  string            `json:"name"`
	Tags  []string          `json:"tags"`
	Prefs map[string]string `json:"prefs"`
}

func TestReadReturnsDefaultWhenMissing(t *testing.T) {
	store := NewMemoryStore()
	assert.Equal(t, "initial-value", Read(store, "test-key", "initial-value"))
}

func TestReadDecodesStoredValue(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("test-key", `{"name":"John","tags":["a"],"prefs":{"theme":"dark"}}`))

	got := Read(store, "test-key", profile{})
	assert.Equal(t, profile{Name: "John", Tags: []string{"a"}, Prefs: map[string]string{"theme": "dark"}}, got)
}

func TestReadFallsBackOnCorruptJSON(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("test-key", "invalid-json"))

	assert.Equal(t, "default-value", Read(store, "test-key", "default-value"))
}

func TestReadFallsBackOnStoreFailure(t *testing.T) {
	store := &failingStore{getErr: errors.New("storage unavailable")}
	assert.Equal(t, 7, Read(store, "k", 7))
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	v := profile{Name: "Ada", Tags: []string{"x", "y"}, Prefs: map[string]string{"sort": "asc"}}

	require.NoError(t, Write(store, "profile", v))
	assert.Equal(t, v, Read(store, "profile", profile{}))
}

func TestPersistedSetWritesThrough(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersisted(store, "test-key", "initial")

	require.NoError(t, p.Set("updated-value"))
	assert.Equal(t, "updated-value", p.Get())

	raw, err := store.Get("test-key")
	require.NoError(t, err)
	assert.Equal(t, `"updated-value"`, raw)
}

func TestPersistedUpdate(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("test-key", `"initial"`))

	p := NewPersisted(store, "test-key", "default")
	require.NoError(t, p.Update(func(prev string) string { return prev + "-updated" }))
	assert.Equal(t, "initial-updated", p.Get())
	assert.Equal(t, "initial-updated", Read(store, "test-key", ""))
}

func TestPersistedWriteFailureKeepsMemoryValue(t *testing.T) {
	store := &failingStore{getErr: ErrNotFound, setErr: errors.New("quota exceeded")}
	p := NewPersisted(store, "test-key", "initial")

	err := p.Set("new-value")
	assert.Error(t, err)
	assert.Equal(t, "new-value", p.Get(), "in-memory value is not rolled back")
	assert.Equal(t, 1, store.sets)
}

func TestNilStoreIsInert(t *testing.T) {
	p := NewPersisted[int](nil, "k", 3)
	assert.Equal(t, 3, p.Get())
	assert.NoError(t, p.Set(4))
	assert.Equal(t, 4, p.Get())
}
