package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charter-leads/pkg/logger"
)

// Notifier receives every persisted lead. Implementations must return
// immediately; delivery happens detached from the caller.
type Notifier interface {
	Notify(ctx context.Context, lead Lead)
}

// Service is the single entry point for creating and reading leads.
// The web form and voice pipelines stay separate until they produce an Input.
type Service struct {
	repo       Repository
	notifier   Notifier
	normalizer *Normalizer
	clock      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:       repo,
		notifier:   notifier,
		normalizer: NewNormalizer(),
		clock:      time.Now,
	}
}

// SubmitForm validates a web form submission strictly and stores it.
// A *ValidationError is returned for bad input.
func (s *Service) SubmitForm(ctx context.Context, f FormSubmission) (Lead, error) {
	in, err := f.Validate()
	if err != nil {
		return Lead{}, err
	}
	return s.create(ctx, in)
}

// IngestVoice stores a lead from any supported voice-AI payload shape.
// It only fails when the store does.
func (s *Service) IngestVoice(ctx context.Context, payload map[string]any) (Lead, string, error) {
	in, shape := s.normalizer.Normalize(payload)
	logger.From(ctx).Debug("voice payload normalized", "shape", shape)
	l, err := s.create(ctx, in)
	return l, shape, err
}

// List returns every lead newest first. Store errors degrade to an empty list.
func (s *Service) List(ctx context.Context) []Lead {
	out, err := s.repo.List(ctx)
	if err != nil {
		if !errors.Is(err, ErrStoreUnavailable) {
			logger.From(ctx).Error("list leads failed", "err", err)
		}
		return []Lead{}
	}
	if out == nil {
		return []Lead{}
	}
	return out
}

func (s *Service) create(ctx context.Context, in Input) (Lead, error) {
	// Postgres keeps microseconds; trimming here keeps reads equal to writes.
	ts := s.clock().UTC().Truncate(time.Microsecond)

	l, err := s.repo.Insert(ctx, in, ts)
	if err != nil {
		return Lead{}, fmt.Errorf("leads: insert: %w", err)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, l)
	}
	return l, nil
}
