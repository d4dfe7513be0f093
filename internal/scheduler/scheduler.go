// Package scheduler runs the background jobs of a web server: a periodic
// "nginx -t" watchdog and the daily audit history cleanup.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/vm75/nginx-manager/internal/models"
)

// ConfigTester validates the nginx configuration. service.NginxService
// satisfies it.
type ConfigTester interface {
	Test(ctx context.Context) (*models.CommandResult, error)
}

// HistoryPruner drops audit history older than a retention window.
// service.HistoryService satisfies it.
type HistoryPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// Config holds the scheduler configuration. A job is only registered when
// its collaborator is set and its interval or retention is positive.
type Config struct {
	Tester        ConfigTester
	CheckInterval time.Duration

	Pruner    HistoryPruner
	Retention time.Duration
	// PruneAt is the "HH:MM" local time of the daily cleanup. Defaults to 03:00.
	PruneAt string

	// JobTimeout bounds a single job run. Defaults to one minute.
	JobTimeout time.Duration
	Logger     *slog.Logger
}

// Scheduler manages the background jobs using gocron.
type Scheduler struct {
	cron   gocron.Scheduler
	cfg    Config
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler. Jobs are registered by Start.
func New(cfg Config) (*Scheduler, error) {
	if cfg.CheckInterval < 0 {
		return nil, fmt.Errorf("check interval must not be negative, got %s", cfg.CheckInterval)
	}
	if cfg.PruneAt == "" {
		cfg.PruneAt = "03:00"
	}
	if _, _, err := parseAtTime(cfg.PruneAt); err != nil {
		return nil, err
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}
	return &Scheduler{cron: cron, cfg: cfg, logger: cfg.Logger}, nil
}

// Start registers the configured jobs and starts the gocron scheduler.
// Jobs stop receiving a live context once ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	jobs := 0
	if s.cfg.Tester != nil && s.cfg.CheckInterval > 0 {
		_, err := s.cron.NewJob(
			gocron.DurationJob(s.cfg.CheckInterval),
			gocron.NewTask(s.runConfigCheck),
			gocron.WithName("nginx-config-check"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("scheduling nginx config check: %w", err)
		}
		jobs++
	}

	if s.cfg.Pruner != nil && s.cfg.Retention > 0 {
		hour, minute, _ := parseAtTime(s.cfg.PruneAt)
		_, err := s.cron.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
			gocron.NewTask(s.runPrune),
			gocron.WithName("audit-history-prune"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("scheduling audit history prune: %w", err)
		}
		// History may already be past retention after downtime.
		_, err = s.cron.NewJob(
			gocron.OneTimeJob(gocron.OneTimeJobStartImmediately()),
			gocron.NewTask(s.runPrune),
			gocron.WithName("audit-history-prune-startup"),
		)
		if err != nil {
			return fmt.Errorf("scheduling startup prune: %w", err)
		}
		jobs++
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		"jobs", jobs,
		"check_interval", s.cfg.CheckInterval.String(),
		"retention", s.cfg.Retention.String(),
	)
	return nil
}

// Stop shuts down the gocron scheduler and waits for running jobs.
func (s *Scheduler) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("stopping scheduler: %w", err)
	}
	return nil
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	parent := s.ctx
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, s.cfg.JobTimeout)
}

// runConfigCheck runs "nginx -t". The nginx service publishes the outcome,
// so a failure reaches the audit trail and any alerting listener.
func (s *Scheduler) runConfigCheck() {
	ctx, cancel := s.jobContext()
	defer cancel()

	result, err := s.cfg.Tester.Test(ctx)
	switch {
	case err != nil && errors.Is(err, context.Canceled):
	case err != nil:
		s.logger.Error("scheduled nginx config check failed to run", "error", err)
	case !result.Success:
		s.logger.Warn("scheduled nginx config check reported errors", "output", result.Output)
	default:
		s.logger.Debug("scheduled nginx config check passed")
	}
}

func (s *Scheduler) runPrune() {
	ctx, cancel := s.jobContext()
	defer cancel()

	if _, err := s.cfg.Pruner.Prune(ctx, s.cfg.Retention); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("audit history prune failed", "error", err)
	}
}

// parseAtTime parses an "HH:MM" string.
func parseAtTime(at string) (uint, uint, error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid prune time %q, want HH:MM", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing hour from %q: %w", at, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing minute from %q: %w", at, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("prune time out of range: %q", at)
	}
	return uint(hour), uint(minute), nil //nolint:gosec // bounds checked above
}
