package calls

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo mirrors the Postgres merge semantics in memory. Used by tests.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]CallLog

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[string]CallLog{}}
}

func (r *MemoryRepo) Upsert(ctx context.Context, p Patch) (CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return CallLog{}, r.Err
	}
	row, exists := r.rows[p.CallID]
	if !exists {
		row.ID = uuid.NewString()
	}
	p.apply(&row, exists)
	r.rows[p.CallID] = row
	return row, nil
}

func (r *MemoryRepo) ListByLead(ctx context.Context, leadID string) ([]CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []CallLog{}
	for _, row := range r.rows {
		if row.LeadID == leadID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// Get returns the row for a call id.
func (r *MemoryRepo) Get(callID string) (CallLog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[callID]
	return row, ok
}

// Len is the number of stored rows.
func (r *MemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
