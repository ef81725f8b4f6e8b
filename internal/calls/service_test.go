package calls

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo Repository, start time.Time) (*Service, func(time.Duration)) {
	svc := NewService(repo)
	now := start
	svc.clock = func() time.Time { return now }
	return svc, func(d time.Duration) { now = now.Add(d) }
}

func TestApplyEvent_SkipsMissingCallID(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	res, err := svc.ApplyEvent(context.Background(), Event{Type: EventCallStarted})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, 0, repo.Len())
}

func TestApplyEvent_StartedIsIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(5 * time.Second)

	_, err := svc.ApplyEvent(ctx, Event{Type: EventCallStarted, CallID: "call-1", StartedAt: &first})
	require.NoError(t, err)
	_, err = svc.ApplyEvent(ctx, Event{Type: EventCallStarted, CallID: "call-1", StartedAt: &second})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.Len())
	row, ok := repo.Get("call-1")
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, row.Status)
	require.NotNil(t, row.StartedAt)
	assert.True(t, row.StartedAt.Equal(second))
}

func TestApplyEvent_LifecycleKeepsEarlierFields(t *testing.T) {
	repo := NewMemoryRepo()
	svc, advance := newTestService(repo, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.RecordInitiated(ctx, "lead-1", "call-1")
	require.NoError(t, err)

	advance(time.Second)
	res, err := svc.ApplyEvent(ctx, Event{Type: EventCallStarted, CallID: "call-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, res.Status)

	advance(time.Minute)
	dur, cost := 61.0, 0.12
	res, err = svc.ApplyEvent(ctx, Event{Type: EventCallEnded, CallID: "call-1", Duration: &dur, Cost: &cost})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, res.Status)

	row, _ := repo.Get("call-1")
	assert.Equal(t, "lead-1", row.LeadID)
	assert.NotNil(t, row.StartedAt)
	assert.NotNil(t, row.EndedAt)
	assert.Equal(t, 61.0, *row.Duration)
	assert.Equal(t, 0.12, *row.Cost)
	assert.Equal(t, StatusCompleted, row.Status)
}

func TestApplyEvent_TranscriptDoesNotChangeStatus(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.ApplyEvent(ctx, Event{Type: EventCallFailed, CallID: "c", Error: "no answer"})
	require.NoError(t, err)
	res, err := svc.ApplyEvent(ctx, Event{Type: EventTranscript, CallID: "c", Transcript: "hello?"})
	require.NoError(t, err)
	assert.Equal(t, Status("transcript"), res.Status)

	row, _ := repo.Get("c")
	assert.Equal(t, StatusFailed, row.Status)
	assert.Equal(t, "no answer", row.Error)
	assert.Equal(t, "hello?", row.Transcript)
}

func TestApplyEvent_UnknownTypePassthrough(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	res, err := svc.ApplyEvent(context.Background(), Event{Type: "hang", CallID: "c"})
	require.NoError(t, err)
	assert.Equal(t, Status("hang"), res.Status)
	row, _ := repo.Get("c")
	assert.Equal(t, Status("hang"), row.Status)
}

func TestRecordInitiated_KeepsAdvancedStatus(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.ApplyEvent(ctx, Event{Type: EventCallStarted, CallID: "c"})
	require.NoError(t, err)
	_, err = svc.RecordInitiated(ctx, "lead-9", "c")
	require.NoError(t, err)

	row, _ := repo.Get("c")
	assert.Equal(t, StatusInProgress, row.Status)
	assert.Equal(t, "lead-9", row.LeadID)
}

func TestApplyEvent_StoreErrorPropagates(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Err = errors.New("down")
	svc := NewService(repo)

	_, err := svc.ApplyEvent(context.Background(), Event{Type: EventCallStarted, CallID: "c"})
	assert.Error(t, err)
}

func TestListForLead(t *testing.T) {
	repo := NewMemoryRepo()
	svc, advance := newTestService(repo, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, _ = svc.RecordInitiated(ctx, "lead-1", "a")
	advance(time.Hour)
	_, _ = svc.RecordInitiated(ctx, "lead-1", "b")
	_, _ = svc.RecordInitiated(ctx, "lead-2", "c")

	got := svc.ListForLead(ctx, "lead-1")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].CallID)

	assert.Empty(t, svc.ListForLead(ctx, "unknown"))
	assert.NotNil(t, svc.ListForLead(ctx, "unknown"))

	unavailable := NewService(UnavailableRepo{})
	assert.NotNil(t, unavailable.ListForLead(ctx, "lead-1"))
}

func TestApplyEvent_ReportsFinalRow(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	res, err := svc.ApplyEvent(ctx, Event{Type: EventCallStarted, CallID: "call-9"})
	require.NoError(t, err)
	assert.False(t, res.Final)

	res, err = svc.ApplyEvent(ctx, Event{Type: EventCallEnded, CallID: "call-9"})
	require.NoError(t, err)
	assert.True(t, res.Final)

	res, err = svc.ApplyEvent(ctx, Event{Type: EventTranscript, CallID: "call-9", Transcript: "bye"})
	require.NoError(t, err)
	assert.True(t, res.Final, "transcript after the end keeps the row completed")
}
