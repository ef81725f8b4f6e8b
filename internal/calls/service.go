package calls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charter-leads/pkg/logger"
)

// Service keeps call logs current as calls are placed and as the voice
// provider reports lifecycle transitions.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Result is what the webhook reports back to the provider.
type Result struct {
	Skipped bool
	CallID  string
	Status  Status
	// Final is set once the stored row reached completed or failed.
	Final bool
}

// RecordInitiated logs a call the voice channel just placed. If a lifecycle
// event already created the row, its status is kept.
func (s *Service) RecordInitiated(ctx context.Context, leadID, callID string) (CallLog, error) {
	if callID == "" {
		return CallLog{}, errors.New("calls: call id is required")
	}
	return s.repo.Upsert(ctx, Patch{
		CallID:     callID,
		LeadID:     leadID,
		Status:     StatusInitiated,
		KeepStatus: true,
		At:         s.now(),
	})
}

// ApplyEvent merges one lifecycle event into its call log.
// Events without a call id are skipped, never rejected.
func (s *Service) ApplyEvent(ctx context.Context, e Event) (Result, error) {
	if e.CallID == "" {
		return Result{Skipped: true}, nil
	}
	p := e.Patch(s.now())
	row, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return Result{}, fmt.Errorf("calls: upsert %s: %w", e.CallID, err)
	}
	return Result{CallID: e.CallID, Status: p.Status, Final: row.Status.Terminal()}, nil
}

// ListForLead returns the lead's calls newest first. Store errors degrade to empty.
func (s *Service) ListForLead(ctx context.Context, leadID string) []CallLog {
	out, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		if !errors.Is(err, ErrStoreUnavailable) {
			logger.From(ctx).Error("list call logs failed", "lead_id", leadID, "err", err)
		}
		return []CallLog{}
	}
	if out == nil {
		return []CallLog{}
	}
	return out
}

func (s *Service) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}
