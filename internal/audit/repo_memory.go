package audit

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory append-only repository for tests and
// store-less local runs.
type MemoryRepo struct {
	mu     sync.Mutex
	events []Event

	// Err, when set, is returned by Append.
	Err error
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryRepo) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
