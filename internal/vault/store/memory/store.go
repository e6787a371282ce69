package memory

import (
	"context"
	"sync"

	"landledger/internal/ledger"
	"landledger/internal/vault/models"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
)

type Store struct {
	mu     sync.RWMutex
	stakes map[domain.Address]models.Stake
}

func New() *Store {
	return &Store{stakes: make(map[domain.Address]models.Stake)}
}

func (s *Store) FindByOwner(_ context.Context, owner domain.Address) (*models.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stake, ok := s.stakes[owner]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &stake, nil
}

func (s *Store) Save(ctx context.Context, stake *models.Stake) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.stakes[stake.Owner]
	s.stakes[stake.Owner] = *stake
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.stakes[stake.Owner] = prev
		} else {
			delete(s.stakes, stake.Owner)
		}
	})
	return nil
}
