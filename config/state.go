package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	StateFileName = "state.json"
	// LockFileName is the name of the lock file
	LockFileName = "state.lock"
	// DefaultLockTimeout is the default timeout for acquiring locks
	DefaultLockTimeout = 5 * time.Second
)

// FileStore keeps every key in a single JSON object on disk. Reads take a shared
// lock and writes an exclusive one so several consoles can share a state dir.
type FileStore struct {
	dir         string
	lockFile    *flock.Flock
	lockTimeout time.Duration
}

// NewFileStore creates the state directory if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{
		dir:         dir,
		lockFile:    flock.New(filepath.Join(dir, LockFileName)),
		lockTimeout: DefaultLockTimeout,
	}, nil
}

// Path returns the state file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, StateFileName)
}

func (s *FileStore) Get(key string) (string, error) {
	var values map[string]string
	err := s.withLock(false, func() error {
		var err error
		values, err = s.readWithoutLocking()
		return err
	})
	if err != nil {
		return "", err
	}

	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *FileStore) Set(key, value string) error {
	return s.withLock(true, func() error {
		values, err := s.readWithoutLocking()
		if err != nil {
			return err
		}
		values[key] = value
		return s.writeWithoutLocking(values)
	})
}

func (s *FileStore) Delete(key string) error {
	return s.withLock(true, func() error {
		values, err := s.readWithoutLocking()
		if err != nil {
			return err
		}
		if _, ok := values[key]; !ok {
			return nil
		}
		delete(values, key)
		return s.writeWithoutLocking(values)
	})
}

// withLock runs fn holding a shared (exclusive=false) or exclusive lock.
func (s *FileStore) withLock(exclusive bool, fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lockFile.TryLockContext(ctx, 100*time.Millisecond)
	} else {
		locked, err = s.lockFile.TryRLockContext(ctx, 100*time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock within timeout")
	}
	defer s.lockFile.Unlock()

	return fn()
}

// readWithoutLocking loads the state file. A missing file is an empty table.
func (s *FileStore) readWithoutLocking() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return values, nil
}

func (s *FileStore) writeWithoutLocking(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write to a temporary file first to ensure atomicity
	statePath := s.Path()
	tmpPath := statePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	if err := os.Rename(tmpPath, statePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to atomically update state file: %w", err)
	}
	return nil
}

// Close releases any locks held by this store
func (s *FileStore) Close() error {
	if s.lockFile != nil {
		return s.lockFile.Unlock()
	}
	return nil
}
