package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/catalog-search/internal/metrics"
)

const defaultJobTimeout = 5 * time.Minute

// ErrJobNotConfigured is returned when a job is triggered that was never
// registered.
var ErrJobNotConfigured = errors.New("job not configured")

// IndexRebuilder rebuilds a local search index.
type IndexRebuilder interface {
	Run(ctx context.Context) (int, error)
}

// CachePurger removes expired cache entries.
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic local reindex and cache purge jobs.
type Scheduler struct {
	cron       *cron.Cron
	log        *slog.Logger
	rebuilder  IndexRebuilder
	purger     CachePurger
	jobTimeout time.Duration
}

// SchedulerOption configures the Scheduler.
type SchedulerOption func(*schedulerConfig)

type schedulerConfig struct {
	rebuilder    IndexRebuilder
	reindexEvery time.Duration
	purger       CachePurger
	purgeEvery   time.Duration
	jobTimeout   time.Duration
}

// WithReindexJob schedules r every interval.
func WithReindexJob(r IndexRebuilder, every time.Duration) SchedulerOption {
	return func(c *schedulerConfig) {
		c.rebuilder = r
		c.reindexEvery = every
	}
}

// WithPurgeJob schedules p every interval.
func WithPurgeJob(p CachePurger, every time.Duration) SchedulerOption {
	return func(c *schedulerConfig) {
		c.purger = p
		c.purgeEvery = every
	}
}

// WithJobTimeout bounds a single job run.
func WithJobTimeout(d time.Duration) SchedulerOption {
	return func(c *schedulerConfig) {
		if d > 0 {
			c.jobTimeout = d
		}
	}
}

// NewScheduler creates a Scheduler with the configured jobs. A job with a
// nil target or a non-positive interval is not registered.
func NewScheduler(log *slog.Logger, opts ...SchedulerOption) (*Scheduler, error) {
	cfg := schedulerConfig{jobTimeout: defaultJobTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Scheduler{
		cron:       cron.New(),
		log:        log,
		rebuilder:  cfg.rebuilder,
		purger:     cfg.purger,
		jobTimeout: cfg.jobTimeout,
	}

	if cfg.rebuilder != nil && cfg.reindexEvery > 0 {
		if _, err := s.cron.AddFunc("@every "+cfg.reindexEvery.String(), s.runReindex); err != nil {
			return nil, err
		}
	}

	if cfg.purger != nil && cfg.purgeEvery > 0 {
		if _, err := s.cron.AddFunc("@every "+cfg.purgeEvery.String(), s.runPurge); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Reindex rebuilds the local index once.
func (s *Scheduler) Reindex(ctx context.Context) (int, error) {
	if s.rebuilder == nil {
		return 0, ErrJobNotConfigured
	}
	n, err := s.rebuilder.Run(ctx)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Purge removes expired cache entries once.
func (s *Scheduler) Purge(ctx context.Context) (int64, error) {
	if s.purger == nil {
		return 0, ErrJobNotConfigured
	}
	n, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}
	metrics.CachePurgedTotal.Add(float64(n))
	return n, nil
}

func (s *Scheduler) runReindex() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.log.Info("scheduled reindex starting")
	n, err := s.Reindex(ctx)
	if err != nil {
		s.log.Error("scheduled reindex failed", "error", err)
		return
	}
	s.log.Info("scheduled reindex complete", "products", n)
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	n, err := s.Purge(ctx)
	if err != nil {
		s.log.Error("scheduled cache purge failed", "error", err)
		return
	}
	s.log.Info("scheduled cache purge complete", "purged", n)
}
