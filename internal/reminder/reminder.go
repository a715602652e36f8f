// Package reminder periodically checks how many cards are due and reports
// the count through a Notifier.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/domain"
)

// StatsSource provides the collection-wide review statistics.
// service.CardService satisfies it.
type StatsSource interface {
	ReviewStats(ctx context.Context) (domain.ReviewStats, error)
}

// Notifier delivers a due-card digest.
type Notifier interface {
	NotifyDue(ctx context.Context, stats domain.ReviewStats) error
}

// LogNotifier reports digests as structured log lines.
type LogNotifier struct {
	Logger *slog.Logger
}

// NotifyDue implements Notifier.
func (n LogNotifier) NotifyDue(ctx context.Context, stats domain.ReviewStats) error {
	log := n.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "cards due for review",
		slog.Int("cards_due", stats.CardsDue),
		slog.Int("cards_new", stats.CardsNew),
		slog.Int("total_cards", stats.TotalCards))
	return nil
}

// ErrAlreadyStarted is returned by Start on a running scheduler.
var ErrAlreadyStarted = errors.New("reminder scheduler already started")

// Scheduler runs the due-card check on a fixed interval.
type Scheduler struct {
	source   StatsSource
	notifier Notifier
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
	cancel    context.CancelFunc
}

// New creates a reminder scheduler from cfg. It does not start it.
func New(cfg config.ReminderConfig, source StatsSource, notifier Notifier, logger *slog.Logger) (*Scheduler, error) {
	if source == nil {
		return nil, domain.NewValidationError("source", "cannot be nil", domain.ErrValidation)
	}
	if cfg.IntervalMinutes < 1 {
		return nil, domain.NewValidationError("interval_minutes", "must be at least 1", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "reminder"))
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}

	return &Scheduler{
		source:   source,
		notifier: notifier,
		interval: time.Duration(cfg.IntervalMinutes) * time.Minute,
		logger:   logger,
	}, nil
}

// Start schedules the check and returns immediately. The first check runs
// right away. Checks never overlap.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return ErrAlreadyStarted
	}

	jobCtx, cancel := context.WithCancel(ctx)

	sched := gocron.NewScheduler(time.UTC)
	sched.SingletonModeAll()
	if _, err := sched.Every(s.interval).Do(s.run, jobCtx); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	sched.StartAsync()

	s.scheduler = sched
	s.cancel = cancel
	s.logger.Info("reminder scheduler started", slog.Duration("interval", s.interval))
	return nil
}

// Stop halts the schedule. It is safe to call on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return
	}
	s.cancel()
	s.scheduler.Stop()
	s.scheduler = nil
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.Check(ctx); err != nil {
		s.logger.Error("reminder check failed", slog.String("error", err.Error()))
	}
}

// Check reads the current statistics and notifies when any card is due.
func (s *Scheduler) Check(ctx context.Context) error {
	stats, err := s.source.ReviewStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read review stats: %w", err)
	}

	if stats.CardsDue == 0 {
		s.logger.Debug("no cards due")
		return nil
	}

	if err := s.notifier.NotifyDue(ctx, stats); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}
