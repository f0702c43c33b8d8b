package scheduler

import (
	"log/slog"
	"time"

	"github.com/dom/locus-core/internal/metrics"
	"github.com/robfig/cron/v3"
)

type options struct {
	Logger   *slog.Logger
	Cron     *cron.Cron
	Schedule string
	Location *time.Location
	Metrics  *metrics.Metrics
}

// Option applies configuration to the sweeper.
type Option func(*options)

func defaultOptions() options {
	return options{
		Logger:   slog.Default(),
		Schedule: "@hourly",
		Location: time.UTC,
	}
}

// WithLogger injects a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.Logger = l
	}
}

// WithCron supplies a preconfigured cron scheduler instance.
func WithCron(c *cron.Cron) Option {
	return func(o *options) {
		o.Cron = c
	}
}

// WithSchedule sets the cron spec of the sweep job.
func WithSchedule(spec string) Option {
	return func(o *options) {
		if spec != "" {
			o.Schedule = spec
		}
	}
}

// WithLocation sets the scheduler timezone location.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.Location = loc
		}
	}
}

// WithMetrics records sweep counts and durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.Metrics = m
	}
}
