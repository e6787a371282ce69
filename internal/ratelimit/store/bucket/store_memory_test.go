package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"landledger/internal/ratelimit/models"
	"landledger/pkg/domain"
)

const (
	testLimit  = 10
	testWindow = time.Minute
)

// writeKey is the bucket key of a write-class caller labelled label.
func writeKey(label string) string {
	return models.CallerKey(models.ClassWrite, domain.DeriveAddress(label).String())
}

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	ctx   context.Context
	clock time.Time
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.store = NewInMemoryBucketStore()
	s.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return s.clock }
	s.ctx = context.Background()
}

func (s *InMemoryBucketStoreSuite) TestAllow() {
	s.Run("first request allowed", func() {
		result, err := s.store.Allow(s.ctx, writeKey("allow-first"), testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("requests up to limit allowed", func() {
		var result *models.RateLimitResult
		var err error
		for range testLimit {
			result, err = s.store.Allow(s.ctx, writeKey("allow-limit"), testLimit, testWindow)
		}
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(0, result.Remaining)
	})

	s.Run("request over limit denied with retry hint", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, writeKey("allow-over"), testLimit, testWindow)
			require.NoError(s.T(), err)
		}
		s.clock = s.clock.Add(20 * time.Second)
		result, err := s.store.Allow(s.ctx, writeKey("allow-over"), testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Equal(40, result.RetryAfter)
	})

	s.Run("after window expires requests allowed", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, writeKey("allow-reset"), testLimit, testWindow)
			s.Require().NoError(err)
		}
		s.clock = s.clock.Add(testWindow + time.Second)

		result, err := s.store.Allow(s.ctx, writeKey("allow-reset"), testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit-1, result.Remaining)
	})
}

func (s *InMemoryBucketStoreSuite) TestAllowN() {
	s.Run("cost of 5 consumes 5 tokens", func() {
		result, err := s.store.AllowN(s.ctx, writeKey("allown-five"), 5, testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(5, result.Remaining)
	})

	s.Run("cost greater than remaining denied", func() {
		first, err := s.store.AllowN(s.ctx, writeKey("allown-deny"), 7, testLimit, testWindow)
		s.Require().NoError(err)
		s.Require().True(first.Allowed)

		result, err := s.store.AllowN(s.ctx, writeKey("allown-deny"), 4, testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)

		count, err := s.store.GetCurrentCount(s.ctx, writeKey("allown-deny"))
		s.Require().NoError(err)
		s.Equal(7, count, "denied cost is not recorded")
	})
}

func (s *InMemoryBucketStoreSuite) TestReset() {
	_, err := s.store.AllowN(s.ctx, writeKey("reset"), testLimit, testLimit, testWindow)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Reset(s.ctx, writeKey("reset")))

	result, err := s.store.Allow(s.ctx, writeKey("reset"), testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(testLimit-1, result.Remaining)
}

func (s *InMemoryBucketStoreSuite) TestConcurrent() {
	limit := 100
	key := writeKey("concurrent")
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for range 200 {
		wg.Go(func() {
			result, err := s.store.Allow(s.ctx, key, limit, testWindow)
			if err == nil && result.Allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		})
	}

	wg.Wait()
	s.Equal(limit, allowedCount)
}
