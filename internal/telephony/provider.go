package telephony

import "context"

// CallPlacer places an outbound notification call.
//
// Rules:
// - No provider SDK calls outside telephony adapters.
// - Request/response types stay provider-agnostic.
type CallPlacer interface {
	Name() string
	PlaceCall(ctx context.Context, call OutboundCall) (PlacedCall, error)
}

// OutboundCall is a spoken notification to one staff number.
type OutboundCall struct {
	// To is E.164 where possible.
	To string `json:"to"`

	// Message is read out as soon as the call connects.
	Message string `json:"message"`

	LeadID        string `json:"lead_id"`
	Urgency       string `json:"urgency"`
	PassengerName string `json:"passenger_name"`
}

// PlacedCall is the provider's acknowledgement.
type PlacedCall struct {
	// CallID is the provider call identifier. Lifecycle webhooks refer to it.
	CallID   string `json:"call_id"`
	Provider string `json:"provider"`
}
