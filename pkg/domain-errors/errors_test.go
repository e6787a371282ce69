package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outermost code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("context: %w", New(CodeSoldOut, "sale sold out"))
		assert.True(t, HasCode(err, CodeSoldOut))
		assert.False(t, HasCode(err, CodeCapExceeded))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})

	t.Run("wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Wrap(cause, CodeInternal, "failed to save property")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to save property: disk full", err.Error())
	})

	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})
}

// TestCategory pins the grouping that the transport layer maps to statuses.
func TestCategory(t *testing.T) {
	tests := []struct {
		code Code
		want Category
	}{
		{CodeZeroAmount, CategoryValidation},
		{CodeInvalidMetadata, CategoryValidation},
		{CodeNotVerifier, CategoryAuthorization},
		{CodeNotRegistry, CategoryAuthorization},
		{CodePropertyNotPending, CategoryState},
		{CodeSaleEnded, CategoryState},
		{CodeCapExceeded, CategoryCapacity},
		{CodeInsufficientStake, CategoryCapacity},
		{CodeTokenAlreadyExists, CategoryUniqueness},
		{CodeInternal, CategoryInternal},
		{Code("made_up"), CategoryInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Category())
		})
	}
}
