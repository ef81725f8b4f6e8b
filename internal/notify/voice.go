package notify

import (
	"context"
	"time"

	"charter-leads/internal/calls"
	"charter-leads/internal/leads"
	"charter-leads/internal/telephony"
	"charter-leads/pkg/logger"
)

// CallRecorder logs a placed call. *calls.Service implements it.
type CallRecorder interface {
	RecordInitiated(ctx context.Context, leadID, callID string) (calls.CallLog, error)
}

// VoiceChannel has a voice provider call a fixed staff number and read the lead out.
type VoiceChannel struct {
	placer   telephony.CallPlacer
	recorder CallRecorder
	to       string
	brand    string
	location *time.Location
}

func NewVoiceChannel(placer telephony.CallPlacer, recorder CallRecorder, to, brand string) *VoiceChannel {
	return &VoiceChannel{placer: placer, recorder: recorder, to: to, brand: brand, location: time.UTC}
}

func (c *VoiceChannel) Name() string { return "voice" }

// Send fails only when the call could not be placed. A call log write
// failure is logged and swallowed.
func (c *VoiceChannel) Send(ctx context.Context, l leads.Lead) error {
	placed, err := c.placer.PlaceCall(ctx, telephony.OutboundCall{
		To:            c.to,
		Message:       SpokenSummary(c.brand, l, c.location),
		LeadID:        l.ID,
		Urgency:       string(l.Urgency),
		PassengerName: l.Name,
	})
	if err != nil {
		return err
	}

	log := logger.From(ctx).With("lead_id", l.ID, "call_id", placed.CallID, "provider", placed.Provider)
	if placed.CallID == "" || c.recorder == nil {
		log.Warn("call placed without call log")
		return nil
	}
	if _, err := c.recorder.RecordInitiated(ctx, l.ID, placed.CallID); err != nil {
		log.Error("call log write failed", "err", err)
	}
	return nil
}
