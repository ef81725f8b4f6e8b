package reporting

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo holds campaigns and rows in memory. Tests and store-less local
// runs use it.
type MemoryRepo struct {
	mu sync.Mutex

	Campaigns   []Campaign
	Performance []PerformanceRow
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) ListActiveCampaigns(ctx context.Context) ([]Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Campaign{}
	for _, c := range r.Campaigns {
		if c.Status == CampaignActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ListPerformance(ctx context.Context, campaignIDs []string, since time.Time) ([]PerformanceRow, error) {
	want := make(map[string]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		want[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []PerformanceRow{}
	for _, p := range r.Performance {
		if want[p.CampaignID] && !p.Date.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

// SetBudget and SetStatus let the marketing store share this repo's campaigns.
func (r *MemoryRepo) SetBudget(id string, budget float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Campaigns {
		if r.Campaigns[i].ID == id {
			r.Campaigns[i].DailyBudget = budget
			return true
		}
	}
	return false
}

func (r *MemoryRepo) SetStatus(id, status string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Campaigns {
		if r.Campaigns[i].ID == id {
			r.Campaigns[i].Status = status
			return true
		}
	}
	return false
}

// Campaign returns a copy of the stored campaign.
func (r *MemoryRepo) Campaign(id string) (Campaign, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Campaigns {
		if c.ID == id {
			return c, true
		}
	}
	return Campaign{}, false
}
