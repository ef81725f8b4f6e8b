package calls

import "time"

// CallLog tracks one voice-channel call, keyed by the provider's call id.
//
// Rows are created either right after the voice channel places a call
// (status initiated) or by the first lifecycle event for an unknown call id.
// LeadID may be empty for calls that were never tied to a lead.
type CallLog struct {
	ID     string `json:"id" db:"id"`
	CallID string `json:"call_id" db:"call_id"`
	LeadID string `json:"lead_id,omitempty" db:"lead_id"`

	Status Status `json:"status" db:"status"`

	Timestamp time.Time  `json:"timestamp" db:"timestamp"`
	StartedAt *time.Time `json:"started_at,omitempty" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`

	// Duration is in seconds as reported by the provider.
	Duration *float64 `json:"duration,omitempty" db:"duration"`
	Cost     *float64 `json:"cost,omitempty" db:"cost"`

	Error      string `json:"error,omitempty" db:"error"`
	Transcript string `json:"transcript,omitempty" db:"transcript"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Status holds one of the known values or an unrecognized event type verbatim.
type Status string

const (
	StatusInitiated  Status = "initiated"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions are expected.
// Not enforced: late events still overwrite.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Patch is a merge-patch for one call id. Zero values mean "leave as is",
// except Status which always wins unless KeepStatus is set.
type Patch struct {
	CallID string
	LeadID string
	Status Status
	// KeepStatus applies Status only when the row is being created.
	KeepStatus bool

	StartedAt *time.Time
	EndedAt   *time.Time
	Duration  *float64
	Cost      *float64

	Error      string
	Transcript string

	// At is the row timestamp on insert and updated_at on every write.
	At time.Time
}

func (p Patch) apply(row *CallLog, exists bool) {
	if !exists {
		row.CallID = p.CallID
		row.Timestamp = p.At
		row.Status = p.Status
	} else if !p.KeepStatus {
		row.Status = p.Status
	}
	if p.LeadID != "" {
		row.LeadID = p.LeadID
	}
	if p.StartedAt != nil {
		row.StartedAt = p.StartedAt
	}
	if p.EndedAt != nil {
		row.EndedAt = p.EndedAt
	}
	if p.Duration != nil {
		row.Duration = p.Duration
	}
	if p.Cost != nil {
		row.Cost = p.Cost
	}
	if p.Error != "" {
		row.Error = p.Error
	}
	if p.Transcript != "" {
		row.Transcript = p.Transcript
	}
	row.UpdatedAt = p.At
}
