package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "landledger/pkg/domain-errors"
)

type MemoryRunnerSuite struct {
	suite.Suite
	runner  *Memory
	metrics *Metrics
}

func TestMemoryRunnerSuite(t *testing.T) {
	suite.Run(t, new(MemoryRunnerSuite))
}

func (s *MemoryRunnerSuite) SetupTest() {
	s.metrics = NewMetrics(prometheus.NewRegistry())
	s.runner = NewMemory(WithMetrics(s.metrics))
}

// TestRollback verifies the all-or-nothing contract.
//
// Justification: every ledger operation relies on a failed step undoing the
// steps before it, so partial effects are never observable.
func (s *MemoryRunnerSuite) TestRollback() {
	s.Run("undo runs in reverse order on error", func() {
		var order []int
		err := s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
			OnRollback(ctx, func() { order = append(order, 1) })
			OnRollback(ctx, func() { order = append(order, 2) })
			return errors.New("boom")
		})
		s.Require().Error(err)
		s.Equal([]int{2, 1}, order)
	})

	s.Run("after-commit hooks are dropped on error", func() {
		ran := false
		_ = s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
			AfterCommit(ctx, func() { ran = true })
			return errors.New("boom")
		})
		s.False(ran)
	})

	s.Run("panics roll back and propagate", func() {
		undone := false
		s.Panics(func() {
			_ = s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
				OnRollback(ctx, func() { undone = true })
				panic("bug")
			})
		})
		s.True(undone)
	})
}

func (s *MemoryRunnerSuite) TestCommit() {
	s.Run("after-commit hooks run once, undo does not", func() {
		ran, undone := 0, false
		err := s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
			OnRollback(ctx, func() { undone = true })
			AfterCommit(ctx, func() { ran++ })
			return nil
		})
		s.Require().NoError(err)
		s.Equal(1, ran)
		s.False(undone)
	})

	s.Run("nested transactions join the outer scope", func() {
		undone := false
		err := s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
			inner := s.runner.RunInTx(ctx, func(ctx context.Context) error {
				OnRollback(ctx, func() { undone = true })
				return nil
			})
			s.Require().NoError(inner)
			return errors.New("outer fails after inner succeeded")
		})
		s.Require().Error(err)
		s.True(undone, "inner effects must be undone by the outer failure")
	})

	s.Run("records outcome metrics", func() {
		_ = s.runner.RunInTx(context.Background(), func(context.Context) error { return nil })
		s.GreaterOrEqual(testutil.CollectAndCount(s.metrics.TxDuration), 1)
	})
}

func (s *MemoryRunnerSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.runner.RunInTx(ctx, func(context.Context) error { return nil })
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

// TestSerialization checks that operations never interleave.
func TestMemory_Serializes(t *testing.T) {
	runner := NewMemory(WithTimeout(time.Minute))
	var (
		inside  int
		maxSeen int
		mu      sync.Mutex
		wg      sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.RunInTx(context.Background(), func(context.Context) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxSeen)
}

func TestAfterCommit_OutsideTransactionRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func() { ran = true })
	assert.True(t, ran)
	assert.False(t, InTx(context.Background()))
}

// TestView_HidesUncommittedWrites pins that a query issued while a transaction
// is open waits for it and observes only the committed outcome.
func TestView_HidesUncommittedWrites(t *testing.T) {
	runner := NewMemory(WithTimeout(time.Minute))
	value := "committed"
	entered := make(chan struct{})
	release := make(chan struct{})

	txDone := make(chan error, 1)
	go func() {
		txDone <- runner.RunInTx(context.Background(), func(ctx context.Context) error {
			prev := value
			value = "dirty"
			OnRollback(ctx, func() { value = prev })
			close(entered)
			<-release
			return errors.New("step failed")
		})
	}()
	<-entered

	seen := make(chan string, 1)
	go func() {
		v, err := Read(context.Background(), runner, func(context.Context) (string, error) {
			return value, nil
		})
		assert.NoError(t, err)
		seen <- v
	}()

	select {
	case v := <-seen:
		close(release)
		t.Fatalf("read %q while the transaction was still open", v)
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	require.Error(t, <-txDone)
	assert.Equal(t, "committed", <-seen)
}

func TestView_JoinsOpenScopes(t *testing.T) {
	runner := NewMemory(WithTimeout(time.Minute))

	t.Run("inside a transaction", func(t *testing.T) {
		err := runner.RunInTx(context.Background(), func(ctx context.Context) error {
			return runner.View(ctx, func(context.Context) error { return nil })
		})
		require.NoError(t, err)
	})

	t.Run("inside another view", func(t *testing.T) {
		n, err := Read(context.Background(), runner, func(ctx context.Context) (int, error) {
			return Read(ctx, runner, func(context.Context) (int, error) { return 7, nil })
		})
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})
}
