package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_Opens(t *testing.T) {
	b := New("redis", WithFailureThreshold(3))
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "redis", b.Name())

	for range 2 {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback)
		assert.False(t, change.Opened)
	}
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open")
}

// Justification: A flapping store must not close the circuit on scattered
// successes; only an unbroken run counts.
func TestBreaker_ClosesOnConsecutiveSuccesses(t *testing.T) {
	b := New("redis", WithFailureThreshold(1), WithSuccessThreshold(3))
	b.RecordFailure()

	b.RecordSuccess()
	b.RecordSuccess()
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	for range 2 {
		usePrimary, change := b.RecordSuccess()
		assert.False(t, usePrimary)
		assert.False(t, change.Closed)
	}
	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b := New("redis", WithFailureThreshold(2))
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.False(t, b.IsOpen())
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}
