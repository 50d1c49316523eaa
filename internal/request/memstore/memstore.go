// Package memstore provides an in-memory implementation of request.Store.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/linnemanlabs/wardline/internal/request"
)

// Store holds pending requests in memory. Suitable for dev/testing.
type Store struct {
	mu   sync.RWMutex
	live map[string]*request.Request // request ID -> request
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		live: make(map[string]*request.Request),
	}
}

// Insert stores a copy of the request keyed by its ID.
func (s *Store) Insert(_ context.Context, r *request.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[r.ID]; ok {
		return fmt.Errorf("insert %s: %w", r.ID, request.ErrDuplicateID)
	}
	cp := *r
	s.live[r.ID] = &cp
	return nil
}

// List returns copies of all live requests in unspecified order.
func (s *Store) List(_ context.Context) ([]request.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]request.Request, 0, len(s.live))
	for _, r := range s.live {
		out = append(out, *r)
	}
	return out, nil
}

// Delete removes the request if present and reports whether it existed.
// The check and removal happen under one lock, so concurrent deletes of the
// same id see true exactly once.
func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[id]; !ok {
		return false, nil
	}
	delete(s.live, id)
	return true, nil
}
