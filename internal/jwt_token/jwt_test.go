package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)
var caller = domain.DeriveAddress("alice")

func Test_GenerateCallerToken(t *testing.T) {
	token, err := jwtService.GenerateCallerToken(caller, time.Now(), time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, caller.String(), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	got, err := jwtService.ValidateCaller(token)
	require.NoError(t, err)
	assert.Equal(t, caller, got)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateCallerToken(caller, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewJWTService("test-signing-key", "test-issuer", "other-audience")
	token, err := other.GenerateCallerToken(caller, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateCaller(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
