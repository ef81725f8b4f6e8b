package reporting

import (
	"context"
	"errors"
	"time"
)

// Window is how far back performance rows count toward an aggregate.
const Window = 7 * 24 * time.Hour

// Repository reads campaigns and their daily metrics.
type Repository interface {
	ListActiveCampaigns(ctx context.Context) ([]Campaign, error)
	// ListPerformance returns rows dated at or after since for the given campaigns.
	ListPerformance(ctx context.Context, campaignIDs []string, since time.Time) ([]PerformanceRow, error)
}

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service { return &Service{repo: repo, clock: time.Now} }

// ActivePerformance aggregates the last Window of metrics for every active
// campaign. Campaigns with no rows still appear, with zero metrics.
func (s *Service) ActivePerformance(ctx context.Context) ([]CampaignPerformance, error) {
	if s.repo == nil {
		return nil, errors.New("reporting: repository not configured")
	}
	campaigns, err := s.repo.ListActiveCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CampaignPerformance, 0, len(campaigns))
	if len(campaigns) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}
	now := s.clock().UTC()
	rows, err := s.repo.ListPerformance(ctx, ids, now.Add(-Window))
	if err != nil {
		return nil, err
	}

	byCampaign := make(map[string][]PerformanceRow, len(campaigns))
	for _, r := range rows {
		byCampaign[r.CampaignID] = append(byCampaign[r.CampaignID], r)
	}
	for _, c := range campaigns {
		out = append(out, Aggregate(c, byCampaign[c.ID], now))
	}
	return out, nil
}

// Aggregate sums rows inside the window ending at now and derives the ratios.
// Zero denominators count as one, so ratios are zero rather than NaN.
func Aggregate(c Campaign, rows []PerformanceRow, now time.Time) CampaignPerformance {
	out := CampaignPerformance{ID: c.ID, Name: c.Name, Platform: c.Platform}
	for _, r := range rows {
		if now.Sub(r.Date) > Window {
			continue
		}
		out.Impressions += r.Impressions
		out.Clicks += r.Clicks
		out.Conversions += r.Conversions
		out.Spend += r.Spend
	}

	out.CTR = float64(out.Clicks) / atLeastOne(out.Impressions)
	out.CPC = out.Spend / atLeastOne(out.Clicks)
	out.ConversionRate = float64(out.Conversions) / atLeastOne(out.Clicks)
	out.CostPerConversion = out.Spend / atLeastOne(out.Conversions)
	return out
}

func atLeastOne(n int64) float64 {
	if n == 0 {
		return 1
	}
	return float64(n)
}
