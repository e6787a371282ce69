package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFinalizer struct {
	calls atomic.Int32
	err   error
}

func (f *countingFinalizer) FinalizeEnded(context.Context) (int, error) {
	f.calls.Add(1)
	return 1, f.err
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New(&countingFinalizer{}, "every now and then")
	require.Error(t, err)

	_, err = New(nil, "@every 1m")
	require.Error(t, err)
}

func TestRunNow(t *testing.T) {
	f := &countingFinalizer{err: errors.New("store down")}
	s, err := New(f, "@every 1h")
	require.NoError(t, err)

	n, err := s.RunNow(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestRun_StopsWithContext(t *testing.T) {
	f := &countingFinalizer{}
	s, err := New(f, "@every 1s")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))
	assert.GreaterOrEqual(t, f.calls.Load(), int32(1))
}
