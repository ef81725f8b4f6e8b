package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"charter-leads/internal/leads"
	"charter-leads/pkg/logger"
)

// Channel is one independent delivery mechanism for a new lead.
type Channel interface {
	Name() string
	Send(ctx context.Context, lead leads.Lead) error
}

// Outcome is the settled result of one channel for one lead.
type Outcome struct {
	Channel string
	Err     error
	Elapsed time.Duration
}

// Dispatcher fans a lead out to every enabled channel at once and waits for
// all of them to settle. Failures are logged per channel and never returned.
// Nothing is retried; the stored lead and the admin panel are the fallback.
type Dispatcher struct {
	channels []Channel
	log      *slog.Logger

	inflight sync.WaitGroup
}

// NewDispatcher drops nil channels. The set is fixed for the process lifetime.
func NewDispatcher(log *slog.Logger, channels ...Channel) *Dispatcher {
	d := &Dispatcher{log: logger.Component(log, "notify")}
	for _, ch := range channels {
		if ch != nil {
			d.channels = append(d.channels, ch)
		}
	}
	return d
}

// Channels lists enabled channel names in dispatch order.
func (d *Dispatcher) Channels() []string {
	out := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		out = append(out, ch.Name())
	}
	return out
}

// Notify starts a detached dispatch and returns immediately.
// Request cancellation does not stop it.
func (d *Dispatcher) Notify(ctx context.Context, lead leads.Lead) {
	if len(d.channels) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.Dispatch(ctx, lead)
	}()
}

// Dispatch runs every channel concurrently and returns once all have settled.
// Outcomes are in channel order.
func (d *Dispatcher) Dispatch(ctx context.Context, lead leads.Lead) []Outcome {
	out := make([]Outcome, len(d.channels))

	var wg sync.WaitGroup
	for i, ch := range d.channels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = d.run(ctx, ch, lead)
		}()
	}
	wg.Wait()

	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	d.log.Info("lead dispatch settled", "lead_id", lead.ID, "channels", len(out), "failed", failed)
	return out
}

// Wait blocks until detached dispatches finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context, ch Channel, lead leads.Lead) (o Outcome) {
	start := time.Now()
	o.Channel = ch.Name()
	log := d.log.With("channel", o.Channel, "lead_id", lead.ID)

	defer func() {
		if p := recover(); p != nil {
			o.Err = fmt.Errorf("notify: %s channel panicked: %v", o.Channel, p)
		}
		o.Elapsed = time.Since(start)
		if o.Err != nil {
			log.Error("notification failed", "err", o.Err, "duration_ms", o.Elapsed.Milliseconds())
			return
		}
		log.Info("notification sent", "duration_ms", o.Elapsed.Milliseconds())
	}()

	o.Err = ch.Send(ctx, lead)
	return o
}
