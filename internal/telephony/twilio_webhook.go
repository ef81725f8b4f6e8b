package telephony

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"charter-leads/internal/calls"
)

// TwilioStatusForm captures the status callback fields we use.
// Twilio sends application/x-www-form-urlencoded.
// Ref: https://www.twilio.com/docs/voice/api/call-resource#statuscallback
type TwilioStatusForm struct {
	CallSid      string
	CallStatus   string
	CallDuration string
	Timestamp    string
	ErrorCode    string
	ErrorMessage string

	// LeadID comes from the query string we put on the callback URL.
	LeadID string
}

func ParseTwilioStatusCallback(r *http.Request) (TwilioStatusForm, error) {
	if err := r.ParseForm(); err != nil {
		return TwilioStatusForm{}, err
	}
	return TwilioStatusForm{
		CallSid:      strings.TrimSpace(r.PostFormValue("CallSid")),
		CallStatus:   strings.TrimSpace(r.PostFormValue("CallStatus")),
		CallDuration: strings.TrimSpace(r.PostFormValue("CallDuration")),
		Timestamp:    strings.TrimSpace(r.PostFormValue("Timestamp")),
		ErrorCode:    strings.TrimSpace(r.PostFormValue("ErrorCode")),
		ErrorMessage: strings.TrimSpace(r.PostFormValue("ErrorMessage")),
		LeadID:       strings.TrimSpace(r.URL.Query().Get("leadId")),
	}, nil
}

// ToEvent maps Twilio call statuses onto the shared lifecycle.
func (f TwilioStatusForm) ToEvent() calls.Event {
	ev := calls.Event{CallID: f.CallSid, LeadID: f.LeadID}
	at := parseTwilioTime(f.Timestamp)

	switch f.CallStatus {
	case "in-progress":
		ev.Type = calls.EventCallStarted
		ev.StartedAt = at
	case "completed":
		ev.Type = calls.EventCallEnded
		ev.EndedAt = at
		if d, err := strconv.ParseFloat(f.CallDuration, 64); err == nil {
			ev.Duration = &d
		}
	case "failed", "busy", "no-answer", "canceled":
		ev.Type = calls.EventCallFailed
		ev.Error = f.CallStatus
		if f.ErrorMessage != "" {
			ev.Error = f.CallStatus + ": " + f.ErrorMessage
		}
	default:
		ev.Type = f.CallStatus
	}
	return ev
}

// Twilio timestamps are RFC 1123 with a numeric zone.
func parseTwilioTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC1123Z, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
