package marketing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Optimizer is what the scheduler triggers. *Service implements it.
type Optimizer interface {
	Optimize(ctx context.Context) (Report, error)
}

// Scheduler triggers optimization runs in-process on a cron pattern.
type Scheduler struct {
	cron    *cron.Cron
	opt     Optimizer
	timeout time.Duration
	logger  *slog.Logger
}

// NewScheduler accepts standard five-field patterns, an optional leading
// seconds field, and descriptors such as @daily.
func NewScheduler(log *slog.Logger, opt Optimizer, pattern string) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	s := &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		opt:     opt,
		timeout: 10 * time.Minute,
		logger:  log.With(slog.String("service", "marketing_schedule")),
	}
	if _, err := s.cron.AddFunc(pattern, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job, or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.opt.Optimize(ctx)
	switch {
	case errors.Is(err, ErrLocked):
		s.logger.Info("scheduled run skipped, another run holds the lock")
	case errors.Is(err, ErrDisabled):
		s.logger.Debug("scheduled run skipped, optimization disabled")
	case err != nil:
		s.logger.Error("scheduled run failed", slog.Any("error", err))
	default:
		s.logger.Info("scheduled run complete",
			slog.Int("campaigns", report.Summary.CampaignsAnalyzed),
			slog.Int("budget_changes", report.Summary.BudgetChanges),
			slog.Int("paused", report.Summary.CampaignsPaused),
		)
	}
}
