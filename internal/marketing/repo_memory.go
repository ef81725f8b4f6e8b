package marketing

import (
	"context"
	"sync"
	"time"

	"charter-leads/internal/audit"
	"charter-leads/internal/reporting"
)

// MemoryStore applies actions to a reporting.MemoryRepo and logs them to an
// audit.MemoryRepo.
type MemoryStore struct {
	mu        sync.Mutex
	campaigns *reporting.MemoryRepo
	log       *audit.MemoryRepo

	AdCopy []AdCopyRecord
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryStore(campaigns *reporting.MemoryRepo, log *audit.MemoryRepo) *MemoryStore {
	return &MemoryStore{campaigns: campaigns, log: log}
}

func (s *MemoryStore) ApplyBudgetChange(ctx context.Context, ch BudgetChange, entry audit.Event) error {
	if err := s.err(); err != nil {
		return err
	}
	if !s.campaigns.SetBudget(ch.CampaignID, ch.NewBudget) {
		return ErrCampaignNotFound
	}
	return s.append(ctx, entry)
}

func (s *MemoryStore) PauseCampaign(ctx context.Context, campaignID string, entry audit.Event) error {
	if err := s.err(); err != nil {
		return err
	}
	if !s.campaigns.SetStatus(campaignID, reporting.CampaignPaused) {
		return ErrCampaignNotFound
	}
	return s.append(ctx, entry)
}

func (s *MemoryStore) ListActiveAdCopy(ctx context.Context, platform string) ([]AdCopyRecord, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []AdCopyRecord{}
	for _, r := range s.AdCopy {
		if r.Platform == platform && r.Status == "active" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) append(ctx context.Context, entry audit.Event) error {
	e, err := audit.Stamp(entry, time.Now())
	if err != nil {
		return err
	}
	return s.log.Append(ctx, e)
}

func (s *MemoryStore) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}
