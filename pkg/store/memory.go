package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory graph store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy graph bytes so callers cannot mutate the stored record.
	out := rec
	out.Graph = append([]byte(nil), rec.Graph...)
	return &out, nil
}

func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.UpdatedAt = nowUTC()
	stored := *rec
	stored.Graph = append([]byte(nil), rec.Graph...)
	s.records[rec.ID] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, Summary{ID: rec.ID, Name: rec.Name, UpdatedAt: rec.UpdatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)

func nowUTC() time.Time { return time.Now().UTC() }
