package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/steelcity-drags/roster-api/internal/ports/out/idempotency"
)

// Store keeps import responses in process memory. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[idempotency.Fingerprint]idempotency.Record
}

func NewStore() *Store {
	return &Store{records: map[idempotency.Fingerprint]idempotency.Record{}}
}

func (s *Store) Get(_ context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	s.mu.RLock()
	rec, ok := s.records[fp]
	s.mu.RUnlock()
	if !ok {
		return idempotency.Record{}, false, nil
	}
	rec.Body = append([]byte(nil), rec.Body...)
	return rec, true, nil
}

func (s *Store) Put(_ context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	rec.Body = append([]byte(nil), rec.Body...)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.records[fp] = rec
	s.mu.Unlock()
	return nil
}

func (s *Store) Prune(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for fp, rec := range s.records {
		if rec.CreatedAt.Before(before) {
			delete(s.records, fp)
			n++
		}
	}
	return n, nil
}
