package telephony

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"charter-leads/internal/calls"
)

// Vapi posts lifecycle events either wrapped in a "message" object or flat.
// Fields are read from the wrapped form first. Every field is kept raw and
// coerced on read, so one oddly typed field never loses the event.
type vapiEnvelope struct {
	Type    json.RawMessage `json:"type"`
	Message json.RawMessage `json:"message"`
	Call    json.RawMessage `json:"call"`
	Error   json.RawMessage `json:"error"`
}

type vapiEventMsg struct {
	Type       json.RawMessage `json:"type"`
	Call       json.RawMessage `json:"call"`
	Transcript json.RawMessage `json:"transcript"`
}

type vapiCallPayload struct {
	ID        json.RawMessage `json:"id"`
	Metadata  json.RawMessage `json:"metadata"`
	StartedAt json.RawMessage `json:"startedAt"`
	EndedAt   json.RawMessage `json:"endedAt"`
	Duration  json.RawMessage `json:"duration"`
	Cost      json.RawMessage `json:"cost"`
	Error     json.RawMessage `json:"error"`
}

// ParseVapiStatusEvent converts a Vapi webhook body into a lifecycle event.
// A body that is not a JSON object yields an error; callers treat it as a skip.
func ParseVapiStatusEvent(body []byte) (calls.Event, error) {
	var env vapiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return calls.Event{}, err
	}

	ev := calls.Event{Type: rawString(env.Type)}
	var msg vapiEventMsg
	var msgCall *vapiCallPayload
	if decodeObject(env.Message, &msg) {
		msgCall = callPayload(msg.Call)
		if t := rawString(msg.Type); t != "" {
			ev.Type = t
		}
		ev.Transcript = rawString(msg.Transcript)
	}
	flatCall := callPayload(env.Call)

	call := firstCall(msgCall, flatCall)
	if call == nil {
		return ev, nil
	}
	ev.CallID = firstNonEmpty(idOf(msgCall), idOf(flatCall))
	ev.LeadID = firstNonEmpty(leadIDOf(msgCall), leadIDOf(flatCall))
	ev.StartedAt = parseTime(rawString(call.StartedAt))
	ev.EndedAt = parseTime(rawString(call.EndedAt))
	ev.Duration = rawNumber(call.Duration)
	ev.Cost = rawNumber(call.Cost)
	ev.Error = firstNonEmpty(rawText(call.Error), rawText(env.Error))
	return ev, nil
}

func callPayload(raw json.RawMessage) *vapiCallPayload {
	var c vapiCallPayload
	if !decodeObject(raw, &c) {
		return nil
	}
	return &c
}

// decodeObject reports whether raw held a JSON object that decoded into dst.
func decodeObject(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// rawString reads a string or a number; anything else is empty.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// rawNumber reads a number or a numeric string ("42", "0.42").
func rawNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func firstCall(cs ...*vapiCallPayload) *vapiCallPayload {
	for _, c := range cs {
		if c != nil {
			return c
		}
	}
	return nil
}

func idOf(c *vapiCallPayload) string {
	if c == nil {
		return ""
	}
	return rawString(c.ID)
}

func leadIDOf(c *vapiCallPayload) string {
	if c == nil {
		return ""
	}
	var meta struct {
		LeadID json.RawMessage `json:"leadId"`
	}
	if !decodeObject(c.Metadata, &meta) {
		return ""
	}
	return rawString(meta.LeadID)
}

// rawText flattens an error that may be a string, an object with a message, or anything else.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
