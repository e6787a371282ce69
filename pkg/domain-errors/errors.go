// Package domainerrors defines coded errors shared by every ledger component.
//
// Services return *Error values created with New or Wrap. Callers branch on the
// code with HasCode and never on message text. Each code belongs to a Category,
// which the HTTP layer maps to a status.
package domainerrors

import (
	"errors"
)

// Code identifies a specific failure.
type Code string

const (
	// Generic codes.
	CodeInternal           Code = "internal_error"
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeOverflow           Code = "arithmetic_overflow"
	CodeInvariantViolation Code = "invariant_violation"

	// Authorization.
	CodeNotOwner    Code = "not_owner"
	CodeNotVerifier Code = "not_verifier"
	CodeNotRegistry Code = "not_registry"

	// Input validation.
	CodeZeroAmount        Code = "zero_amount"
	CodeInvalidMetadata   Code = "invalid_metadata"
	CodeInvalidTokenPrice Code = "invalid_token_price"

	// State machine.
	CodePropertyNotFound     Code = "property_not_found"
	CodePropertyNotPending   Code = "property_not_pending"
	CodePropertyNotSlashable Code = "property_not_slashable"
	CodeTokenNotFromFactory  Code = "token_not_from_factory"
	CodeTransferLocked       Code = "transfer_locked"
	CodeSaleNotActive        Code = "sale_not_active"
	CodeSaleEnded            Code = "sale_ended"
	CodeSaleAlreadyActive    Code = "sale_already_active"
	CodeSaleStillRunning     Code = "sale_still_running"
	CodeSaleAlreadyFinalized Code = "sale_already_finalized"

	// Capacity.
	CodeInsufficientStake          Code = "insufficient_stake"
	CodeInsufficientBalance        Code = "insufficient_balance"
	CodeInsufficientAllowance      Code = "insufficient_allowance"
	CodeInsufficientFactoryBalance Code = "insufficient_factory_balance"
	CodeInsufficientMarketBalance  Code = "insufficient_market_balance"
	CodeCapExceeded                Code = "cap_exceeded"
	CodeSoldOut                    Code = "sold_out"

	// Uniqueness.
	CodePropertyAlreadyExists Code = "property_already_exists"
	CodeTokenAlreadyExists    Code = "token_already_exists"
)

// Category groups codes by the kind of rule that was violated.
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryAuthorization Category = "authorization"
	CategoryState         Category = "state"
	CategoryCapacity      Category = "capacity"
	CategoryUniqueness    Category = "uniqueness"
	CategoryInternal      Category = "internal"
)

var categories = map[Code]Category{
	CodeBadRequest:        CategoryValidation,
	CodeValidation:        CategoryValidation,
	CodeInvalidInput:      CategoryValidation,
	CodeZeroAmount:        CategoryValidation,
	CodeInvalidMetadata:   CategoryValidation,
	CodeInvalidTokenPrice: CategoryValidation,

	CodeUnauthorized: CategoryAuthorization,
	CodeForbidden:    CategoryAuthorization,
	CodeNotOwner:     CategoryAuthorization,
	CodeNotVerifier:  CategoryAuthorization,
	CodeNotRegistry:  CategoryAuthorization,

	CodeNotFound:             CategoryState,
	CodePropertyNotFound:     CategoryState,
	CodePropertyNotPending:   CategoryState,
	CodePropertyNotSlashable: CategoryState,
	CodeTokenNotFromFactory:  CategoryState,
	CodeTransferLocked:       CategoryState,
	CodeSaleNotActive:        CategoryState,
	CodeSaleEnded:            CategoryState,
	CodeSaleAlreadyActive:    CategoryState,
	CodeSaleStillRunning:     CategoryState,
	CodeSaleAlreadyFinalized: CategoryState,
	CodeInvariantViolation:   CategoryState,

	CodeInsufficientStake:          CategoryCapacity,
	CodeInsufficientBalance:        CategoryCapacity,
	CodeInsufficientAllowance:      CategoryCapacity,
	CodeInsufficientFactoryBalance: CategoryCapacity,
	CodeInsufficientMarketBalance:  CategoryCapacity,
	CodeCapExceeded:                CategoryCapacity,
	CodeSoldOut:                    CategoryCapacity,
	CodeOverflow:                   CategoryCapacity,

	CodeConflict:              CategoryUniqueness,
	CodePropertyAlreadyExists: CategoryUniqueness,
	CodeTokenAlreadyExists:    CategoryUniqueness,
}

// Category reports the group a code belongs to. Unknown codes are internal.
func (c Code) Category() Category {
	if cat, ok := categories[c]; ok {
		return cat
	}
	return CategoryInternal
}

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
// Wrapping nil returns nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost code in the chain, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost domain error in err carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}

// Is is an alias for HasCode kept for call sites that read better as a predicate.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}
