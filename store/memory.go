package store

import (
	"context"
	"sort"
	"sync"

	"github.com/hupe1980/llmsentinel/record"
)

// InMemoryStore is a volatile RunStore implementation keeping records in a
// process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral demos. Each returned record is cloned to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*record.EvaluationRecord
}

// NewInMemoryStore constructs an empty in-memory run store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*record.EvaluationRecord)}
}

// Append implements RunStore.
func (s *InMemoryStore) Append(_ context.Context, rec *record.EvaluationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; exists {
		return ErrDuplicateID
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

// Get implements RunStore.
func (s *InMemoryStore) Get(_ context.Context, id string) (*record.EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

// Query implements RunStore. The cursor iterates a snapshot taken under the
// read lock, so a long-lived cursor never blocks writers.
func (s *InMemoryStore) Query(_ context.Context, f Filter) (Cursor, error) {
	s.mu.RLock()
	matched := make([]*record.EvaluationRecord, 0, len(s.records))
	for _, rec := range s.records {
		if f.Matches(rec) {
			matched = append(matched, rec.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return &sliceCursor{records: matched}, nil
}

// Aggregate implements RunStore.
func (s *InMemoryStore) Aggregate(ctx context.Context, f Filter) (*AggregateView, error) {
	cur, err := s.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	return aggregateCursor(cur)
}

// Close implements RunStore. It is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }

// sliceCursor walks an already materialized snapshot.
type sliceCursor struct {
	records []*record.EvaluationRecord
	pos     int
	current *record.EvaluationRecord
}

func (c *sliceCursor) Next() bool {
	if c.pos >= len(c.records) {
		c.current = nil
		return false
	}
	c.current = c.records[c.pos]
	c.pos++
	return true
}

func (c *sliceCursor) Record() *record.EvaluationRecord { return c.current }

func (c *sliceCursor) Err() error { return nil }

func (c *sliceCursor) Close() error { return nil }

var _ RunStore = (*InMemoryStore)(nil)
