//go:build integration

package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"landledger/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisBucketStore
	ctx   context.Context
}

func TestRedisBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.ctx = context.Background()
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.store = NewRedisBucketStore(s.redis.Client)
}

func (s *RedisBucketStoreSuite) TestSlidingWindow() {
	s.Run("admits up to the limit then denies", func() {
		for i := range testLimit {
			result, err := s.store.Allow(s.ctx, "it:window", testLimit, testWindow)
			s.Require().NoError(err)
			s.True(result.Allowed)
			s.Equal(testLimit-i-1, result.Remaining)
		}
		result, err := s.store.Allow(s.ctx, "it:window", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Positive(result.RetryAfter)
	})

	s.Run("expired hits free capacity", func() {
		base := time.Now()
		s.store.now = func() time.Time { return base }
		_, err := s.store.AllowN(s.ctx, "it:expiry", testLimit, testLimit, testWindow)
		s.Require().NoError(err)

		s.store.now = func() time.Time { return base.Add(testWindow + time.Second) }
		result, err := s.store.Allow(s.ctx, "it:expiry", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})

	s.Run("reset clears the bucket", func() {
		_, err := s.store.AllowN(s.ctx, "it:reset", 3, testLimit, testWindow)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Reset(s.ctx, "it:reset"))
		count, err := s.store.GetCurrentCount(s.ctx, "it:reset")
		s.Require().NoError(err)
		s.Zero(count)
	})
}

// Justification: The script must stay atomic when many instances race on one key.
func (s *RedisBucketStoreSuite) TestConcurrentAdmission() {
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for range 50 {
		wg.Go(func() {
			result, err := s.store.Allow(s.ctx, "it:concurrent", 20, testWindow)
			if err == nil && result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	s.Equal(20, allowed)
}
