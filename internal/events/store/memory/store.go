package memory

import (
	"context"
	"sync"

	"landledger/internal/events"
	"landledger/internal/ledger"
)

// Store is an append-only in-memory event log.
type Store struct {
	mu     sync.RWMutex
	events []events.Event
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(ctx context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	n := len(s.events)
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.events = s.events[:n-1]
	})
	return nil
}

// List returns every event in append order.
func (s *Store) List(_ context.Context) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.Event{}, s.events...), nil
}

// ListByKind returns events of one kind in append order.
func (s *Store) ListByKind(_ context.Context, kind events.Kind) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []events.Event
	for _, e := range s.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}
