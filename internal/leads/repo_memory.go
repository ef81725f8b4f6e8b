package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory repository used by tests and local runs.
type MemoryRepo struct {
	mu    sync.Mutex
	leads []Lead

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Insert(ctx context.Context, in Input, ts time.Time) (Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return Lead{}, r.Err
	}
	l := in.toLead(uuid.NewString(), ts)
	r.leads = append(r.leads, l)
	return l, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]Lead, len(r.leads))
	copy(out, r.leads)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
