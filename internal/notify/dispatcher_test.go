package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"charter-leads/internal/leads"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannel struct {
	name  string
	err   error
	panic bool
	delay time.Duration
	calls atomic.Int32
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Send(ctx context.Context, l leads.Lead) error {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panic {
		panic("boom")
	}
	return s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLead() leads.Lead {
	return leads.Lead{
		ID:                "lead-1",
		Timestamp:         time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC),
		FromAirportOrCity: "TEB",
		ToAirportOrCity:   "MIA",
		DateTime:          "tomorrow 9am",
		Pax:               4,
		Name:              "Jane Doe",
		Phone:             "+15551234567",
		Email:             "jane@example.com",
		Urgency:           leads.UrgencyUrgent,
	}
}

func TestDispatch_FailuresAreIsolated(t *testing.T) {
	email := &stubChannel{name: "email", err: errors.New("smtp down")}
	voice := &stubChannel{name: "voice", panic: true}
	hook := &stubChannel{name: "webhook"}

	d := NewDispatcher(quietLogger(), email, nil, voice, hook)
	assert.Equal(t, []string{"email", "voice", "webhook"}, d.Channels())

	out := d.Dispatch(context.Background(), testLead())
	require.Len(t, out, 3)

	assert.Equal(t, "email", out[0].Channel)
	assert.EqualError(t, out[0].Err, "smtp down")
	assert.Equal(t, "voice", out[1].Channel)
	assert.ErrorContains(t, out[1].Err, "panicked")
	assert.Equal(t, "webhook", out[2].Channel)
	assert.NoError(t, out[2].Err)

	assert.EqualValues(t, 1, hook.calls.Load())
}

func TestDispatch_RunsChannelsConcurrently(t *testing.T) {
	a := &stubChannel{name: "a", delay: 100 * time.Millisecond}
	b := &stubChannel{name: "b", delay: 100 * time.Millisecond}
	c := &stubChannel{name: "c", delay: 100 * time.Millisecond}
	d := NewDispatcher(quietLogger(), a, b, c)

	start := time.Now()
	d.Dispatch(context.Background(), testLead())
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestNotify_SurvivesCanceledRequest(t *testing.T) {
	ch := &stubChannel{name: "email", delay: 20 * time.Millisecond}
	d := NewDispatcher(quietLogger(), ch)

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, testLead())
	cancel()

	waitCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	require.NoError(t, d.Wait(waitCtx))
	assert.EqualValues(t, 1, ch.calls.Load())
}

func TestNotify_NoChannelsIsNoop(t *testing.T) {
	d := NewDispatcher(quietLogger())
	d.Notify(context.Background(), testLead())
	require.NoError(t, d.Wait(context.Background()))
}
