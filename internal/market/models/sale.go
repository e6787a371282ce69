package models

import (
	"time"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

const (
	// BuyerCapBasisPoints bounds one buyer's cumulative purchases (10%).
	BuyerCapBasisPoints domain.Amount = 1000
	// TokenUnit is the number of indivisible units in one priced token.
	TokenUnit domain.Amount = 1
)

// Sale is the primary sale of one token.
//
// Invariants:
//   - TokensSold <= TokensForSale, and only grows
//   - Proceeds is the sum of the costs of all purchases
//   - Finalized implies !Active
type Sale struct {
	Token         domain.Address
	TokensForSale domain.Amount
	TokensSold    domain.Amount
	PricePerToken domain.Amount
	Proceeds      domain.Amount
	StartTime     time.Time
	EndTime       time.Time
	Beneficiary   domain.Address
	Active        bool
	Finalized     bool
}

// NewSale opens a sale running for duration from now.
func NewSale(token domain.Address, forSale, price domain.Amount, beneficiary domain.Address, now time.Time, duration time.Duration) *Sale {
	return &Sale{
		Token:         token,
		TokensForSale: forSale,
		PricePerToken: price,
		StartTime:     now,
		EndTime:       now.Add(duration),
		Beneficiary:   beneficiary,
		Active:        true,
	}
}

// Open reports whether the sale is running or awaiting finalization.
func (s *Sale) Open() bool {
	return s.Active && !s.Finalized
}

// BuyerCap is the most a single buyer may hold from this sale.
func (s *Sale) BuyerCap() domain.Amount {
	c, _ := domain.MulDiv(s.TokensForSale, BuyerCapBasisPoints, domain.BasisPoints)
	return c
}

func (s *Sale) Remaining() domain.Amount {
	return s.TokensForSale - s.TokensSold
}

// Ended reports whether purchases are closed, by time or by selling out.
func (s *Sale) Ended(now time.Time) bool {
	return now.After(s.EndTime) || s.TokensSold == s.TokensForSale
}

// Cost prices amount units.
func (s *Sale) Cost(amount domain.Amount) (domain.Amount, error) {
	return domain.MulDiv(amount, s.PricePerToken, TokenUnit)
}

// CanBuy checks a purchase of amount by a buyer who already bought bought.
func (s *Sale) CanBuy(now time.Time, bought, amount domain.Amount) error {
	if !s.Open() {
		return dErrors.New(dErrors.CodeSaleNotActive, "no active sale for token")
	}
	if now.After(s.EndTime) {
		return dErrors.New(dErrors.CodeSaleEnded, "sale window has closed")
	}
	if amount.IsZero() {
		return dErrors.New(dErrors.CodeZeroAmount, "amount must be greater than zero")
	}
	total, err := bought.Add(amount)
	if err != nil || total > s.BuyerCap() {
		return dErrors.New(dErrors.CodeCapExceeded, "purchase exceeds per-buyer cap of "+s.BuyerCap().String())
	}
	if amount > s.Remaining() {
		return dErrors.New(dErrors.CodeSoldOut, "only "+s.Remaining().String()+" tokens remain")
	}
	return nil
}

// ApplyPurchase records a checked purchase.
func (s *Sale) ApplyPurchase(amount, cost domain.Amount) {
	s.TokensSold += amount
	s.Proceeds += cost
}

func (s *Sale) CanFinalize(now time.Time) error {
	if s.Finalized {
		return dErrors.New(dErrors.CodeSaleAlreadyFinalized, "sale already finalized")
	}
	if !s.Active {
		return dErrors.New(dErrors.CodeSaleNotActive, "no active sale for token")
	}
	if !s.Ended(now) {
		return dErrors.New(dErrors.CodeSaleStillRunning, "sale is still running")
	}
	return nil
}

// ApplyFinalize closes the sale and returns what is handed to liquidity seeding.
func (s *Sale) ApplyFinalize() Handoff {
	s.Active = false
	s.Finalized = true
	return Handoff{
		Token:       s.Token,
		Unsold:      s.Remaining(),
		Proceeds:    s.Proceeds,
		Beneficiary: s.Beneficiary,
	}
}

// Handoff is the result of a finalized sale.
type Handoff struct {
	Token       domain.Address `json:"token"`
	Unsold      domain.Amount  `json:"unsold"`
	Proceeds    domain.Amount  `json:"proceeds"`
	Beneficiary domain.Address `json:"beneficiary"`
}

// Purchase is a buyer's cumulative purchase in the current sale of Token.
type Purchase struct {
	Token  domain.Address
	Buyer  domain.Address
	Amount domain.Amount
}
