package telephony

import (
	"testing"
	"time"

	"charter-leads/internal/calls"
)

func TestParseVapiStatusEvent_Wrapped(t *testing.T) {
	body := `{"message":{"type":"call.ended","call":{"id":"c1","metadata":{"leadId":"lead-1"},"endedAt":"2025-01-01T10:05:00Z","duration":300,"cost":0.42}}}`
	ev, err := ParseVapiStatusEvent([]byte(body))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Type != calls.EventCallEnded || ev.CallID != "c1" || ev.LeadID != "lead-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.EndedAt == nil || !ev.EndedAt.Equal(time.Date(2025, 1, 1, 10, 5, 0, 0, time.UTC)) {
		t.Fatalf("unexpected ended_at %v", ev.EndedAt)
	}
	if ev.Duration == nil || *ev.Duration != 300 || ev.Cost == nil || *ev.Cost != 0.42 {
		t.Fatalf("unexpected duration/cost %+v", ev)
	}
}

func TestParseVapiStatusEvent_Flat(t *testing.T) {
	body := `{"type":"call.failed","call":{"id":"c2","metadata":{"leadId":"lead-2"}},"error":"line busy"}`
	ev, err := ParseVapiStatusEvent([]byte(body))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Type != calls.EventCallFailed || ev.CallID != "c2" || ev.LeadID != "lead-2" || ev.Error != "line busy" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestParseVapiStatusEvent_ErrorObject(t *testing.T) {
	body := `{"message":{"type":"call.failed","call":{"id":"c3","error":{"message":"carrier rejected"}}}}`
	ev, _ := ParseVapiStatusEvent([]byte(body))
	if ev.Error != "carrier rejected" {
		t.Fatalf("unexpected error text %q", ev.Error)
	}
}

func TestParseVapiStatusEvent_Transcript(t *testing.T) {
	body := `{"message":{"type":"transcript","transcript":"hello there","call":{"id":"c4"}}}`
	ev, _ := ParseVapiStatusEvent([]byte(body))
	if ev.Type != calls.EventTranscript || ev.Transcript != "hello there" || ev.CallID != "c4" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestParseVapiStatusEvent_NoCall(t *testing.T) {
	ev, err := ParseVapiStatusEvent([]byte(`{"type":"call.started"}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.CallID != "" {
		t.Fatalf("expected empty call id")
	}
	if _, err := ParseVapiStatusEvent([]byte(`not json`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseVapiStatusEvent_LooseFieldTypes(t *testing.T) {
	body := `{"message":{"type":"call.ended","call":{"id":"c5","metadata":{"leadId":77},"endedAt":12345,"duration":"42","cost":{"total":1},"error":null}}}`
	ev, err := ParseVapiStatusEvent([]byte(body))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Type != calls.EventCallEnded || ev.CallID != "c5" || ev.LeadID != "77" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Duration == nil || *ev.Duration != 42 {
		t.Fatalf("unexpected duration %v", ev.Duration)
	}
	if ev.Cost != nil || ev.EndedAt != nil {
		t.Fatalf("expected unusable cost and ended_at dropped, got %+v", ev)
	}
}

func TestParseVapiStatusEvent_OddEnvelopeFields(t *testing.T) {
	body := `{"type":"call.started","message":"hello","call":{"id":"c6","metadata":"none"}}`
	ev, err := ParseVapiStatusEvent([]byte(body))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Type != calls.EventCallStarted || ev.CallID != "c6" || ev.LeadID != "" {
		t.Fatalf("unexpected event %+v", ev)
	}
}
