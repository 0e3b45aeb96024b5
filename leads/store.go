package leads

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"sales-console/log"
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrUnqualifiedLead = errors.New("unqualified leads cannot be converted")
)

//go:embed data/leads.json
var embeddedLeads []byte

// Source provides the initial lead collection.
type Source interface {
	Fetch(ctx context.Context) ([]Lead, error)
}

// EmbeddedSource serves the dataset compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Fetch(context.Context) ([]Lead, error) {
	return decodeLeads(embeddedLeads)
}

// FileSource reads a JSON array of leads from Path.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(context.Context) ([]Lead, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read leads file: %w", err)
	}
	return decodeLeads(data)
}

func decodeLeads(data []byte) ([]Lead, error) {
	var leads []Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("failed to parse leads: %w", err)
	}
	seen := make(map[string]struct{}, len(leads))
	for _, l := range leads {
		if l.ID == "" {
			return nil, fmt.Errorf("lead %q has no id", l.Name)
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("duplicate lead id %q", l.ID)
		}
		if !l.Status.Valid() {
			return nil, fmt.Errorf("lead %s: unknown status %q", l.ID, l.Status)
		}
		seen[l.ID] = struct{}{}
	}
	return leads, nil
}

// Store holds the lead collection. It is safe for concurrent use.
type Store struct {
	source Source

	mu     sync.RWMutex
	leads  []Lead
	loaded bool
	err    error
	once   sync.Once
}

// NewStore returns an empty store that loads from source.
func NewStore(source Source) *Store {
	if source == nil {
		source = EmbeddedSource{}
	}
	return &Store{source: source}
}

// NewStoreWith returns a store that already holds leads.
func NewStoreWith(leads []Lead) *Store {
	s := &Store{leads: append([]Lead(nil), leads...), loaded: true}
	s.once.Do(func() {})
	return s
}

// Load fetches the collection once, after waiting delay. Later calls return the
// first call's result without fetching again.
func (s *Store) Load(ctx context.Context, delay time.Duration) error {
	s.once.Do(func() {
		leads, err := s.fetch(ctx, delay)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			log.ErrorLog.Printf("failed to load leads: %v", err)
			s.err = err
			return
		}
		s.leads = leads
		s.loaded = true
		log.InfoLog.Printf("loaded %d leads", len(leads))
	})
	return s.Err()
}

func (s *Store) fetch(ctx context.Context, delay time.Duration) ([]Lead, error) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return s.source.Fetch(ctx)
}

// Loaded reports whether the collection is available.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err returns the load error, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// All returns a snapshot of the collection in its original order.
func (s *Store) All() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Lead(nil), s.leads...)
}

// Get returns the lead with id.
func (s *Store) Get(id string) (Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.leads[i], true
	}
	return Lead{}, false
}

// Update merges u into the lead with id and returns the result. The lead keeps
// its position in the collection. Updating an unknown id is a no-op and
// reports false.
func (s *Store) Update(id string, u LeadUpdate) (Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		log.InfoLog.Printf("ignoring update of unknown lead %s", id)
		return Lead{}, false
	}
	s.leads[i] = s.leads[i].Apply(u)
	return s.leads[i], true
}

// Remove deletes the lead with id. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.leads = append(s.leads[:i:i], s.leads[i+1:]...)
	}
}

// take removes and returns the lead with id if check accepts it.
func (s *Store) take(id string, check func(Lead) error) (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Lead{}, ErrLeadNotFound
	}
	l := s.leads[i]
	if err := check(l); err != nil {
		return Lead{}, err
	}
	s.leads = append(s.leads[:i:i], s.leads[i+1:]...)
	return l, nil
}

func (s *Store) index(id string) int {
	for i, l := range s.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}
