package domain

import (
	"database/sql/driver"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	dErrors "landledger/pkg/domain-errors"
)

// Amount is a quantity of a fungible asset in its smallest unit.
// Arithmetic is checked; overflow and underflow return CodeOverflow instead of wrapping.
type Amount uint64

// BasisPoints is the denominator for percentage parameters (10000 = 100%).
const BasisPoints Amount = 10_000

func (a Amount) Uint64() uint64 { return uint64(a) }

func (a Amount) IsZero() bool { return a == 0 }

func (a Amount) String() string { return strconv.FormatUint(uint64(a), 10) }

// Add returns a+b.
func (a Amount) Add(b Amount) (Amount, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, dErrors.New(dErrors.CodeOverflow, "amount overflow")
	}
	return Amount(sum), nil
}

// Sub returns a-b.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff, borrow := bits.Sub64(uint64(a), uint64(b), 0)
	if borrow != 0 {
		return 0, dErrors.New(dErrors.CodeOverflow, "amount underflow")
	}
	return Amount(diff), nil
}

// Mul returns a*b.
func (a Amount) Mul(b Amount) (Amount, error) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 {
		return 0, dErrors.New(dErrors.CodeOverflow, "amount overflow")
	}
	return Amount(lo), nil
}

// MulDiv returns floor(a*num/den) with a 128-bit intermediate product.
func MulDiv(a, num, den Amount) (Amount, error) {
	q, _, err := mulDivRem(a, num, den)
	return q, err
}

// MulDivCeil returns ceil(a*num/den) with a 128-bit intermediate product.
func MulDivCeil(a, num, den Amount) (Amount, error) {
	q, rem, err := mulDivRem(a, num, den)
	if err != nil {
		return 0, err
	}
	if rem == 0 {
		return q, nil
	}
	return q.Add(1)
}

func mulDivRem(a, num, den Amount) (Amount, uint64, error) {
	if den == 0 {
		return 0, 0, dErrors.New(dErrors.CodeInvariantViolation, "division by zero")
	}
	hi, lo := bits.Mul64(uint64(a), uint64(num))
	if hi >= uint64(den) {
		return 0, 0, dErrors.New(dErrors.CodeOverflow, "amount overflow")
	}
	q, rem := bits.Div64(hi, lo, uint64(den))
	return Amount(q), rem, nil
}

// ParseAmount parses a base-10 unsigned integer.
func ParseAmount(s string) (Amount, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount must be a non-negative integer")
	}
	return Amount(v), nil
}

// Value stores amounts as decimal text so NUMERIC(20,0) columns keep the full uint64 range.
func (a Amount) Value() (driver.Value, error) { return a.String(), nil }

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		if v < 0 {
			return fmt.Errorf("negative amount %d", v)
		}
		*a = Amount(v)
		return nil
	case string, []byte:
		s, _ := scanString(v)
		parsed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("scan amount: %w", err)
		}
		*a = Amount(parsed)
		return nil
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
}
