// Package scheduler runs the periodic cache sweep that clears every session
// and handshake token.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/dom/locus-core/internal/cache"
	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	cache cache.Cache
	opts  options

	mu      sync.Mutex
	entry   cron.EntryID
	started bool
}

func NewSweeper(c cache.Cache, opts ...Option) *Sweeper {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Cron == nil {
		o.Cron = cron.New(cron.WithLocation(o.Location))
	}
	return &Sweeper{cache: c, opts: o}
}

// Start registers the sweep job and starts the cron scheduler.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	id, err := s.opts.Cron.AddFunc(s.opts.Schedule, func() {
		_ = s.Sweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule cache sweep %q: %w", s.opts.Schedule, err)
	}

	s.entry = id
	s.started = true
	s.opts.Cron.Start()
	s.opts.Logger.Info("Cache sweeper started", "schedule", s.opts.Schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	<-s.opts.Cron.Stop().Done()
	s.opts.Cron.Remove(s.entry)
	s.started = false
	s.opts.Logger.Info("Cache sweeper stopped")
}

// Sweep clears the whole cache. Live sessions and handshakes are dropped.
func (s *Sweeper) Sweep(ctx context.Context) error {
	done := s.opts.Metrics.RecordSweep()

	if err := s.cache.Flush(ctx); err != nil {
		done(false)
		s.opts.Logger.Error("Cache sweep failed", "error", err)
		return fmt.Errorf("sweep cache: %w", err)
	}

	done(true)
	s.opts.Logger.Info("Cache swept")
	return nil
}
