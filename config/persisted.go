package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"sales-console/log"
)

// Read fetches key from store and JSON-decodes it. A missing key, a decode error
// or a store failure yields def; the latter two are logged as warnings.
func Read[T any](store Store, key string, def T) T {
	if store == nil {
		return def
	}

	raw, err := store.Get(key)
	if errors.Is(err, ErrNotFound) {
		return def
	}
	if err != nil {
		log.WarningLog.Printf("error reading %q from store: %v", key, err)
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.WarningLog.Printf("error decoding %q from store: %v", key, err)
		return def
	}
	return v
}

// Write JSON-encodes v and stores it under key. Failures are logged as warnings
// and returned.
func Write[T any](store Store, key string, v T) error {
	if store == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.WarningLog.Printf("error encoding %q: %v", key, err)
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(key, string(data)); err != nil {
		log.WarningLog.Printf("error writing %q to store: %v", key, err)
		return err
	}
	return nil
}

// Persisted is a value mirrored to a Store. The in-memory copy is authoritative:
// a failed write never rolls it back.
type Persisted[T any] struct {
	store Store
	key   string
	value T
}

// NewPersisted loads key from store, falling back to def.
func NewPersisted[T any](store Store, key string, def T) *Persisted[T] {
	return &Persisted[T]{
		store: store,
		key:   key,
		value: Read(store, key, def),
	}
}

// Get returns the current value.
func (p *Persisted[T]) Get() T {
	return p.value
}

// Set replaces the value and writes it through.
func (p *Persisted[T]) Set(v T) error {
	p.value = v
	return Write(p.store, p.key, v)
}

// Update applies fn to the current value and writes the result through.
func (p *Persisted[T]) Update(fn func(T) T) error {
	return p.Set(fn(p.value))
}
