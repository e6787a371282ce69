package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

var start = time.Unix(1_700_000_000, 0)

func openSale() *Sale {
	return NewSale(domain.DeriveAddress("token"), 320_850, 10, domain.DeriveAddress("beneficiary"), start, 24*time.Hour)
}

func TestSale_BuyerCap(t *testing.T) {
	assert.Equal(t, domain.Amount(32_085), openSale().BuyerCap())
}

// TestSale_CanBuy checks the order in which purchase preconditions fail.
//
// Justification: callers act on the specific failure, so a closed sale must
// never surface as a cap error.
func TestSale_CanBuy(t *testing.T) {
	inWindow := start.Add(time.Hour)
	tests := []struct {
		name   string
		mutate func(*Sale)
		now    time.Time
		bought domain.Amount
		amount domain.Amount
		code   dErrors.Code
	}{
		{"finalized", func(s *Sale) { s.ApplyFinalize() }, inWindow, 0, 1, dErrors.CodeSaleNotActive},
		{"after end", nil, start.Add(25 * time.Hour), 0, 0, dErrors.CodeSaleEnded},
		{"zero amount", nil, inWindow, 0, 0, dErrors.CodeZeroAmount},
		{"single purchase over cap", nil, inWindow, 0, 32_086, dErrors.CodeCapExceeded},
		{"cumulative over cap", nil, inWindow, 32_085, 1, dErrors.CodeCapExceeded},
		{"sold out", func(s *Sale) { s.TokensSold = s.TokensForSale - 5 }, inWindow, 0, 6, dErrors.CodeSoldOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openSale()
			if tt.mutate != nil {
				tt.mutate(s)
			}
			err := s.CanBuy(tt.now, tt.bought, tt.amount)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.code), "got %v", err)
		})
	}

	t.Run("exactly the cap is allowed", func(t *testing.T) {
		assert.NoError(t, openSale().CanBuy(inWindow, 0, 32_085))
	})
	t.Run("end instant is still in window", func(t *testing.T) {
		s := openSale()
		assert.NoError(t, s.CanBuy(s.EndTime, 0, 1))
	})
}

func TestSale_Finalize(t *testing.T) {
	s := openSale()
	err := s.CanFinalize(start.Add(time.Hour))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSaleStillRunning))

	cost, err := s.Cost(1_000)
	require.NoError(t, err)
	s.ApplyPurchase(1_000, cost)

	require.NoError(t, s.CanFinalize(s.EndTime.Add(time.Second)))
	h := s.ApplyFinalize()
	assert.Equal(t, domain.Amount(319_850), h.Unsold)
	assert.Equal(t, domain.Amount(10_000), h.Proceeds)
	assert.Equal(t, s.TokensForSale, s.TokensSold+h.Unsold)
	assert.False(t, s.Open())

	assert.True(t, dErrors.HasCode(s.CanFinalize(s.EndTime.Add(time.Second)), dErrors.CodeSaleAlreadyFinalized))
}

func TestSale_SoldOutMayFinalizeEarly(t *testing.T) {
	s := openSale()
	s.ApplyPurchase(s.TokensForSale, 0)
	assert.NoError(t, s.CanFinalize(start.Add(time.Minute)))
}
