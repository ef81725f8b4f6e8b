package calls

import "time"

// Lifecycle event types understood by the call-status webhook.
const (
	EventCallStarted = "call.started"
	EventCallEnded   = "call.ended"
	EventCallFailed  = "call.failed"
	EventTranscript  = "transcript"
)

// Event is a provider-agnostic lifecycle event. Provider adapters build it
// from their own webhook payloads.
type Event struct {
	Type   string
	CallID string
	LeadID string

	StartedAt *time.Time
	EndedAt   *time.Time
	Duration  *float64
	Cost      *float64

	Error      string
	Transcript string
}

// Patch maps the event onto a call-log merge-patch.
func (e Event) Patch(now time.Time) Patch {
	p := Patch{CallID: e.CallID, LeadID: e.LeadID, At: now}

	switch e.Type {
	case EventCallStarted:
		p.Status = StatusInProgress
		p.StartedAt = e.StartedAt
		if p.StartedAt == nil {
			t := now
			p.StartedAt = &t
		}
	case EventCallEnded:
		p.Status = StatusCompleted
		p.EndedAt = e.EndedAt
		if p.EndedAt == nil {
			t := now
			p.EndedAt = &t
		}
		p.Duration = e.Duration
		p.Cost = e.Cost
	case EventCallFailed:
		p.Status = StatusFailed
		p.Error = e.Error
	case EventTranscript:
		// Transcripts are auxiliary; an existing status is left alone.
		p.Status = Status(EventTranscript)
		p.KeepStatus = true
		p.Transcript = e.Transcript
	case "":
		p.Status = "unknown"
	default:
		p.Status = Status(e.Type)
	}
	return p
}
