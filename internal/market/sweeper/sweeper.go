// Package sweeper finalizes primary sales whose window has closed on a cron
// schedule, so hand-off to liquidity seeding does not wait for the operator.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Finalizer finalizes every ended sale and reports how many it closed.
type Finalizer interface {
	FinalizeEnded(ctx context.Context) (int, error)
}

type Sweeper struct {
	cron      *cron.Cron
	finalizer Finalizer
	schedule  string
	timeout   time.Duration
	logger    *slog.Logger
}

type Option func(*Sweeper)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = logger }
}

// WithTimeout bounds a single sweep.
func WithTimeout(d time.Duration) Option {
	return func(s *Sweeper) { s.timeout = d }
}

// New builds a sweeper for a standard five-field cron schedule or a descriptor
// such as "@every 1m".
func New(finalizer Finalizer, schedule string, opts ...Option) (*Sweeper, error) {
	if finalizer == nil {
		return nil, fmt.Errorf("finalizer is required")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	s := &Sweeper{
		cron:      cron.New(),
		finalizer: finalizer,
		schedule:  schedule,
		timeout:   30 * time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run schedules the sweep and blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.cron.Start()
	s.logger.InfoContext(ctx, "sale sweeper started", "schedule", s.schedule)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("sale sweeper stopped")
	return nil
}

// RunNow performs one sweep immediately.
func (s *Sweeper) RunNow(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.finalizer.FinalizeEnded(ctx)
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.RunNow(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "sale sweep failed", "finalized", n, "error", err)
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "sale sweep completed", "finalized", n)
	}
}
