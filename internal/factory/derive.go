// Package factory holds the pure parts of token issuance: supply sizing,
// allocation split and deterministic address derivation.
package factory

import (
	"encoding/binary"
	"time"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

const (
	// ReferencePrice is the valuation, in payment units, backing one token.
	ReferencePrice domain.Amount = 10

	OwnerShareBasisPoints domain.Amount = 5100
	FeeShareBasisPoints   domain.Amount = 250
)

// initCodeHash stands in for the hash of the token creation code.
var initCodeHash = domain.Keccak256([]byte("landledger/LandToken/v1"))

// Allocation is the split of a token's total supply.
type Allocation struct {
	TotalSupply     domain.Amount
	OwnerAllocation domain.Amount
	PlatformFee     domain.Amount
	PublicSale      domain.Amount
}

// Allocate sizes the supply for valuation and splits it. PublicSale takes the
// rounding remainder so the three parts always sum to TotalSupply.
func Allocate(valuation domain.Amount) (Allocation, error) {
	supply := valuation / ReferencePrice
	if supply.IsZero() {
		return Allocation{}, dErrors.New(dErrors.CodeInvalidMetadata, "valuation too small to issue any tokens")
	}
	owner, err := domain.MulDiv(supply, OwnerShareBasisPoints, domain.BasisPoints)
	if err != nil {
		return Allocation{}, err
	}
	fee, err := domain.MulDiv(supply, FeeShareBasisPoints, domain.BasisPoints)
	if err != nil {
		return Allocation{}, err
	}
	return Allocation{
		TotalSupply:     supply,
		OwnerAllocation: owner,
		PlatformFee:     fee,
		PublicSale:      supply - owner - fee,
	}, nil
}

// CreationSalt is the salt used when a token is actually issued.
func CreationSalt(id domain.PropertyID, issuedAt time.Time, sequence uint64) [32]byte {
	return domain.Keccak256(id.Bytes(), be64(uint64(issuedAt.Unix())), be64(sequence))
}

// PreviewSalt is the salt used by the address preview. It has no sequence
// component, so a preview only matches issuance by coincidence.
func PreviewSalt(id domain.PropertyID, now time.Time) [32]byte {
	return domain.Keccak256(id.Bytes(), be64(uint64(now.Unix())))
}

// DeriveTokenAddress computes keccak256(0xff ‖ factory ‖ salt ‖ initCodeHash)[12:].
func DeriveTokenAddress(factory domain.Address, salt [32]byte) domain.Address {
	sum := domain.Keccak256([]byte{0xff}, factory.Bytes(), salt[:], initCodeHash[:])
	var a domain.Address
	copy(a[:], sum[12:])
	return a
}

func be64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}
