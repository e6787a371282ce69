package models

import (
	"time"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

// Stake is the collateral the vault custodies for one owner.
//
// Invariants:
//   - Locked <= Amount
//   - Amount only grows by deposit and only shrinks by withdrawal, release or forfeiture
type Stake struct {
	Owner     domain.Address
	Amount    domain.Amount
	Locked    domain.Amount
	UpdatedAt time.Time
}

// Available is the unlocked part of the stake.
func (s *Stake) Available() domain.Amount {
	return s.Amount - s.Locked
}

// ApplyDeposit credits a deposit.
func (s *Stake) ApplyDeposit(amount domain.Amount, now time.Time) error {
	next, err := s.Amount.Add(amount)
	if err != nil {
		return err
	}
	s.Amount = next
	s.UpdatedAt = now
	return nil
}

func (s *Stake) CanLock(amount domain.Amount) error {
	if s.Available() < amount {
		return dErrors.New(dErrors.CodeInsufficientStake, "unlocked stake below requested amount")
	}
	return nil
}

func (s *Stake) ApplyLock(amount domain.Amount, now time.Time) {
	s.Locked += amount
	s.UpdatedAt = now
}

// CanWithdraw only allows the unlocked part to leave.
func (s *Stake) CanWithdraw(amount domain.Amount) error {
	return s.CanLock(amount)
}

func (s *Stake) ApplyWithdraw(amount domain.Amount, now time.Time) {
	s.Amount -= amount
	s.UpdatedAt = now
}

// CanPayOut checks a release or forfeiture against the total stake.
func (s *Stake) CanPayOut(amount domain.Amount) error {
	if s.Amount < amount {
		return dErrors.New(dErrors.CodeInsufficientStake, "stake below payout amount")
	}
	return nil
}

// ApplyPayOut removes amount from the stake, unlocking as much as it covers.
func (s *Stake) ApplyPayOut(amount domain.Amount, now time.Time) {
	s.Amount -= amount
	s.Locked -= min(s.Locked, amount)
	s.UpdatedAt = now
}
