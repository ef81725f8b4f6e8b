package calls

import (
	"testing"
	"time"
)

func TestStatusTerminal(t *testing.T) {
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Fatalf("expected completed and failed to be terminal")
	}
	if StatusInitiated.Terminal() || StatusInProgress.Terminal() || Status("ringing").Terminal() {
		t.Fatalf("expected non-terminal statuses")
	}
}

func TestEventPatch_Mapping(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		typ        string
		wantStatus Status
		keep       bool
	}{
		{EventCallStarted, StatusInProgress, false},
		{EventCallEnded, StatusCompleted, false},
		{EventCallFailed, StatusFailed, false},
		{EventTranscript, Status("transcript"), true},
		{"speech.update", Status("speech.update"), false},
		{"", Status("unknown"), false},
	}
	for _, c := range cases {
		p := Event{Type: c.typ, CallID: "c1"}.Patch(now)
		if p.Status != c.wantStatus || p.KeepStatus != c.keep {
			t.Fatalf("%q: got status %q keep %v", c.typ, p.Status, p.KeepStatus)
		}
	}
}

func TestEventPatch_StartedDefaultsToNow(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	p := Event{Type: EventCallStarted, CallID: "c1"}.Patch(now)
	if p.StartedAt == nil || !p.StartedAt.Equal(now) {
		t.Fatalf("expected started_at=now, got %v", p.StartedAt)
	}
}

func TestPatchApply_DoesNotClearFields(t *testing.T) {
	t0 := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	row := CallLog{}
	Event{Type: EventCallStarted, CallID: "c1", LeadID: "l1"}.Patch(t0).apply(&row, false)

	dur := 42.5
	Event{Type: EventCallEnded, CallID: "c1", Duration: &dur}.Patch(t0.Add(time.Minute)).apply(&row, true)

	if row.LeadID != "l1" || row.StartedAt == nil || row.EndedAt == nil {
		t.Fatalf("expected merged fields, got %+v", row)
	}
	if row.Status != StatusCompleted || row.Duration == nil || *row.Duration != dur {
		t.Fatalf("unexpected row %+v", row)
	}
	if !row.Timestamp.Equal(t0) {
		t.Fatalf("expected creation timestamp kept")
	}
}
