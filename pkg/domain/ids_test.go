package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "landledger/pkg/domain-errors"
)

// TestParseAddress_Invariants validates the parsing invariant:
// "addresses are 0x-prefixed, 20 bytes, and never zero"
//
// Justification: This is a pure function guarding the trust boundary for every
// principal that reaches the ledger.
func TestParseAddress_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAddress("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		_, err := ParseAddress(strings.Repeat("ab", 20))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero address", func(t *testing.T) {
		_, err := ParseAddress("0x" + strings.Repeat("00", 20))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts mixed case and renders lowercase", func(t *testing.T) {
		a, err := ParseAddress("0xABCDEF" + strings.Repeat("01", 17))
		require.NoError(t, err)
		assert.Equal(t, "0xabcdef"+strings.Repeat("01", 17), a.String())
	})
}

func TestParseID_SecurityInvariants(t *testing.T) {
	valid := "0x" + strings.Repeat("1f", 32)
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE properties;--", true},
		{"Null byte injection", "0x" + strings.Repeat("1f", 31) + "\x00\x00", true},
		{"Oversized input", "0x" + strings.Repeat("a", 1000), true},
		{"Non hex digits", "0x" + strings.Repeat("zz", 32), true},
		{"Short id", "0x1234", true},
		{"Zero id", "0x" + strings.Repeat("0", 64), true},
		{"Whitespace only", "   ", true},
		{"Valid id", valid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePropertyID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAddressTextRoundTrip(t *testing.T) {
	a := DeriveAddress("vault")
	text, err := a.MarshalText()
	require.NoError(t, err)

	var back Address
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, a, back)
}

func TestDeriveAddress_Deterministic(t *testing.T) {
	assert.Equal(t, DeriveAddress("market"), DeriveAddress("market"))
	assert.NotEqual(t, DeriveAddress("market"), DeriveAddress("vault"))
	assert.False(t, DeriveAddress("market").IsZero())
}

// TestKeccak256_KnownVector pins the legacy Keccak padding (not NIST SHA3-256).
func TestKeccak256_KnownVector(t *testing.T) {
	sum := Keccak256()
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		PropertyID(sum).String())
}
