package memory

import (
	"context"
	"sort"
	"sync"

	"landledger/internal/ledger"
	"landledger/internal/market/models"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
)

type purchaseKey struct {
	token domain.Address
	buyer domain.Address
}

type Store struct {
	mu        sync.RWMutex
	sales     map[domain.Address]models.Sale
	purchases map[purchaseKey]domain.Amount
}

func New() *Store {
	return &Store{
		sales:     make(map[domain.Address]models.Sale),
		purchases: make(map[purchaseKey]domain.Amount),
	}
}

func (s *Store) FindSale(_ context.Context, token domain.Address) (*models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &sale, nil
}

func (s *Store) SaveSale(ctx context.Context, sale *models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.sales[sale.Token]
	s.sales[sale.Token] = *sale
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.sales[sale.Token] = prev
		} else {
			delete(s.sales, sale.Token)
		}
	})
	return nil
}

// ListOpenSales returns unfinalized active sales ordered by end time.
func (s *Store) ListOpenSales(_ context.Context) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Sale
	for _, sale := range s.sales {
		if sale.Open() {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

func (s *Store) Purchased(_ context.Context, token, buyer domain.Address) (domain.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.purchases[purchaseKey{token, buyer}], nil
}

func (s *Store) SetPurchased(ctx context.Context, token, buyer domain.Address, amount domain.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := purchaseKey{token, buyer}
	prev, existed := s.purchases[key]
	s.purchases[key] = amount
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.purchases[key] = prev
		} else {
			delete(s.purchases, key)
		}
	})
	return nil
}

func (s *Store) ClearPurchases(ctx context.Context, token domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := make(map[purchaseKey]domain.Amount)
	for k, v := range s.purchases {
		if k.token == token {
			removed[k] = v
			delete(s.purchases, k)
		}
	}
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for k, v := range removed {
			s.purchases[k] = v
		}
	})
	return nil
}
