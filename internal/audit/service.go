package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is append-only. No Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records optimization decisions. Callers treat logging as
// best-effort; a failed append never undoes the action it describes.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	e, err := Stamp(e, s.clock())
	if err != nil {
		return err
	}
	return s.repo.Append(ctx, e)
}

// Stamp validates e and fills its id and creation time.
func Stamp(e Event, now time.Time) (Event, error) {
	if e.ActionType == "" {
		return Event{}, ErrInvalidEvent
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now.UTC()
	}
	if len(e.Details) == 0 {
		e.Details = json.RawMessage("{}")
	}
	return e, nil
}

// NewEvent marshals details and returns an unstamped event.
func NewEvent(action ActionType, campaignID string, details any, reason string, applied bool) (Event, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return Event{}, fmt.Errorf("audit: marshal details: %w", err)
	}
	return Event{
		ActionType: action,
		CampaignID: campaignID,
		Details:    raw,
		Reason:     reason,
		Applied:    applied,
	}, nil
}
