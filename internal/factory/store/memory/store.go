package memory

import (
	"context"
	"sync"

	"landledger/internal/ledger"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
)

type Store struct {
	mu         sync.RWMutex
	tokens     []domain.Address
	byProperty map[domain.PropertyID]domain.Address
}

func New() *Store {
	return &Store{byProperty: make(map[domain.PropertyID]domain.Address)}
}

func (s *Store) Append(ctx context.Context, propertyID domain.PropertyID, tokenAddr domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byProperty[propertyID]; ok {
		return sentinel.ErrConflict
	}
	s.byProperty[propertyID] = tokenAddr
	s.tokens = append(s.tokens, tokenAddr)
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.byProperty, propertyID)
		s.tokens = s.tokens[:len(s.tokens)-1]
	})
	return nil
}

func (s *Store) TokenForProperty(_ context.Context, propertyID domain.PropertyID) (domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byProperty[propertyID]
	if !ok {
		return domain.ZeroAddress, sentinel.ErrNotFound
	}
	return a, nil
}

func (s *Store) List(_ context.Context) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Address, len(s.tokens))
	copy(out, s.tokens)
	return out, nil
}

func (s *Store) At(_ context.Context, index uint64) (domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index >= uint64(len(s.tokens)) {
		return domain.ZeroAddress, sentinel.ErrNotFound
	}
	return s.tokens[index], nil
}

func (s *Store) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.tokens)), nil
}
