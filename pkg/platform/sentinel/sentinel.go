package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into coded domain errors:
// - ErrNotFound: record does not exist
// - ErrConflict: a record with the same key already exists
// - ErrInvalidState: stored row violates an expected invariant
// - ErrUnavailable: backing store temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
