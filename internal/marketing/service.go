package marketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"charter-leads/internal/audit"
	"charter-leads/internal/reporting"
	"charter-leads/pkg/logger"
)

var (
	ErrDisabled      = errors.New("marketing: optimization disabled")
	ErrLocked        = errors.New("marketing: optimization already running")
	ErrNotConfigured = errors.New("ANTHROPIC_API_KEY not configured")
)

const lockKey = "marketing:optimize"

// Locker guards against overlapping runs across instances.
// *utils.RedisLocker implements it.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, ok bool, err error)
}

// Planner produces plans and ad copy. *Advisor implements it.
type Planner interface {
	AnalyzePerformance(ctx context.Context, perf []reporting.CampaignPerformance) (OptimizationPlan, error)
	GenerateAdCopy(ctx context.Context, existing []AdCopyRecord) ([]AdCopy, error)
	DailyBudget() float64
}

type Options struct {
	Enabled bool
	// Locker is optional. Without it runs are not serialized.
	Locker Locker
	Logger *slog.Logger
}

// Service runs one optimization pass: aggregate, plan, apply, log.
type Service struct {
	enabled bool
	perf    *reporting.Service
	store   Store
	planner Planner
	audit   *audit.Service
	locker  Locker
	log     *slog.Logger
	clock   func() time.Time
}

// NewService accepts a nil planner; Optimize then fails with ErrNotConfigured.
func NewService(perf *reporting.Service, store Store, planner Planner, auditLog *audit.Service, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		enabled: opts.Enabled,
		perf:    perf,
		store:   store,
		planner: planner,
		audit:   auditLog,
		locker:  opts.Locker,
		log:     logger.Component(log, "marketing"),
		clock:   time.Now,
	}
}

func (s *Service) Optimize(ctx context.Context) (Report, error) {
	if !s.enabled {
		return Report{}, ErrDisabled
	}
	if s.planner == nil {
		return Report{}, ErrNotConfigured
	}

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, lockKey)
		if err != nil {
			return Report{}, fmt.Errorf("marketing: acquire run lock: %w", err)
		}
		if !ok {
			return Report{}, ErrLocked
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("release run lock failed", "err", err)
			}
		}()
	}

	s.log.Info("optimization run started")

	perf, err := s.perf.ActivePerformance(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch campaigns: %w", err)
	}
	s.log.Info("analyzing campaign performance", "campaigns", len(perf))

	plan, err := s.planner.AnalyzePerformance(ctx, perf)
	if err != nil {
		return Report{}, err
	}

	s.applyBudgetChanges(ctx, plan.BudgetChanges)
	s.pauseCampaigns(ctx, plan.PauseCampaigns, perf)

	existing, err := s.store.ListActiveAdCopy(ctx, PlatformGoogle)
	if err != nil {
		s.log.Warn("list active ad copy failed", "err", err)
		existing = []AdCopyRecord{}
	}
	ads, err := s.planner.GenerateAdCopy(ctx, existing)
	if err != nil {
		return Report{}, err
	}
	if len(ads) > 0 {
		s.logNewAdCopy(ctx, ads)
	}

	daily := s.planner.DailyBudget()
	s.log.Info("optimization run finished",
		"budget_changes", len(plan.BudgetChanges),
		"paused", len(plan.PauseCampaigns),
		"new_ads", len(ads),
		"daily_budget", daily,
	)

	return Report{
		Timestamp: s.clock().UTC(),
		Summary: Summary{
			CampaignsAnalyzed:  len(perf),
			BudgetChanges:      len(plan.BudgetChanges),
			CampaignsPaused:    len(plan.PauseCampaigns),
			NewAdCopyGenerated: len(ads),
			DailyBudget:        daily,
		},
		Plan:        plan,
		Performance: perf,
	}, nil
}

func (s *Service) applyBudgetChanges(ctx context.Context, changes []BudgetChange) {
	for _, ch := range changes {
		entry, err := audit.NewEvent(audit.ActionBudgetChange, ch.CampaignID, ch, ch.Reason, true)
		if err == nil {
			err = s.store.ApplyBudgetChange(ctx, ch, entry)
		}
		if err != nil {
			s.log.Error("failed to update budget", "campaign_id", ch.CampaignID, "err", err)
		}
	}
}

func (s *Service) pauseCampaigns(ctx context.Context, ids []string, perf []reporting.CampaignPerformance) {
	byID := make(map[string]*reporting.CampaignPerformance, len(perf))
	for i := range perf {
		byID[perf[i].ID] = &perf[i]
	}

	for _, id := range ids {
		p := byID[id]
		var cpl float64
		if p != nil {
			cpl = p.CostPerConversion
		}
		details := map[string]any{"campaign": p}
		reason := fmt.Sprintf("Underperforming: CPL $%.2f exceeds target", cpl)

		entry, err := audit.NewEvent(audit.ActionPauseCampaign, id, details, reason, true)
		if err == nil {
			err = s.store.PauseCampaign(ctx, id, entry)
		}
		if err != nil {
			s.log.Error("failed to pause campaign", "campaign_id", id, "err", err)
		}
	}
}

func (s *Service) logNewAdCopy(ctx context.Context, ads []AdCopy) {
	if s.audit == nil {
		return
	}
	details := map[string]any{"platform": PlatformGoogle, "ads": ads}
	reason := fmt.Sprintf("Generated %d new Google Search ad variations for testing", len(ads))
	// Ad copy needs manual review before it goes live.
	entry, err := audit.NewEvent(audit.ActionNewAdCopy, "", details, reason, false)
	if err == nil {
		err = s.audit.Append(ctx, entry)
	}
	if err != nil {
		s.log.Error("failed to log new ad copy", "err", err)
	}
}
