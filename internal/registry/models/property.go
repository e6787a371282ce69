package models

import (
	"time"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

// Status is the property lifecycle state.
type Status string

const (
	StatusNone      Status = "none"
	StatusPending   Status = "pending"
	StatusVerified  Status = "verified"
	StatusRejected  Status = "rejected"
	StatusSlashed   Status = "slashed"
	StatusTokenized Status = "tokenized"
)

// Property is a registered parcel.
//
// Invariants:
//   - StakeOutstanding <= StakeAmount, and is zeroed exactly once on release or forfeit
//   - TokenAddress is set iff the property reached Tokenized (and stays set if later slashed)
//   - Rejected and Slashed are terminal; Tokenized only moves to Slashed
type Property struct {
	ID               domain.PropertyID
	Owner            domain.Address
	Metadata         PropertyMetadata
	Status           Status
	TokenAddress     domain.Address
	RegisteredAt     time.Time
	VerifiedAt       time.Time
	StakeAmount      domain.Amount
	StakeOutstanding domain.Amount
	RejectionReason  string
	SlashEvidence    string
}

// NewProperty creates a Pending property backed by stake.
func NewProperty(id domain.PropertyID, owner domain.Address, m PropertyMetadata, stake domain.Amount, now time.Time) *Property {
	return &Property{
		ID:               id,
		Owner:            owner,
		Metadata:         m,
		Status:           StatusPending,
		RegisteredAt:     now,
		StakeAmount:      stake,
		StakeOutstanding: stake,
	}
}

// CanResolve checks that a verification decision may be taken.
func (p *Property) CanResolve() error {
	if p.Status != StatusPending {
		return dErrors.New(dErrors.CodePropertyNotPending, "property is not pending verification")
	}
	return nil
}

// ApplyApproval marks the property Verified ahead of token issuance.
func (p *Property) ApplyApproval(now time.Time) {
	p.Status = StatusVerified
	p.VerifiedAt = now
}

// ApplyTokenization records the issued token and returns the stake to release.
func (p *Property) ApplyTokenization(token domain.Address) domain.Amount {
	p.Status = StatusTokenized
	p.TokenAddress = token
	return p.takeOutstanding()
}

// ApplyRejection marks the property Rejected and returns the stake to release.
func (p *Property) ApplyRejection(reason string) domain.Amount {
	p.Status = StatusRejected
	p.RejectionReason = reason
	return p.takeOutstanding()
}

func (p *Property) CanSlash() error {
	switch p.Status {
	case StatusPending, StatusVerified, StatusTokenized:
		return nil
	default:
		return dErrors.New(dErrors.CodePropertyNotSlashable, "property cannot be slashed in status "+string(p.Status))
	}
}

// ApplySlash marks the property Slashed and returns the stake to forfeit.
func (p *Property) ApplySlash(evidence string) domain.Amount {
	p.Status = StatusSlashed
	p.SlashEvidence = evidence
	return p.takeOutstanding()
}

func (p *Property) takeOutstanding() domain.Amount {
	out := p.StakeOutstanding
	p.StakeOutstanding = 0
	return out
}
