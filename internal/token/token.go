// Package token keeps the records of issued ownership tokens and enforces the
// transfer lock that holds until the primary sale has concluded.
package token

import (
	"time"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

// Status is the lifecycle flag carried by a token.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusTrading  Status = "trading"
)

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusVerified:
		return 2
	case StatusTrading:
		return 3
	default:
		return 0
	}
}

// Token is an issued ownership token.
//
// Invariants:
//   - OwnerAllocation + PlatformFee + PublicSale == TotalSupply
//   - Status only moves forward: pending -> verified -> trading
//   - Location, Valuation and Area are copies of the property metadata at issuance
type Token struct {
	Address         domain.Address
	PropertyID      domain.PropertyID
	Name            string
	Symbol          string
	Location        string
	Valuation       domain.Amount
	Area            uint64
	Status          Status
	TotalSupply     domain.Amount
	OwnerAllocation domain.Amount
	PlatformFee     domain.Amount
	PublicSale      domain.Amount
	IssuedAt        time.Time
	Sequence        uint64
}

// CheckAllocations verifies the split adds up exactly.
func (t *Token) CheckAllocations() error {
	sum, err := t.OwnerAllocation.Add(t.PlatformFee)
	if err == nil {
		sum, err = sum.Add(t.PublicSale)
	}
	if err != nil || sum != t.TotalSupply {
		return dErrors.New(dErrors.CodeInvariantViolation, "allocations do not sum to total supply")
	}
	return nil
}

// CanAdvanceTo reports whether the status may move to next.
func (t *Token) CanAdvanceTo(next Status) error {
	if next.rank() == 0 || next.rank() <= t.Status.rank() {
		return dErrors.New(dErrors.CodeInvariantViolation, "token status can only move forward")
	}
	return nil
}

// Transferable reports whether from may move tokens given the exemption list.
func (t *Token) Transferable(fromExempt bool) bool {
	return t.Status == StatusTrading || fromExempt
}
