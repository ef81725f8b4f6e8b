package telephony

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioPlacer places notification calls with inline TwiML.
// Twilio has no call metadata, so the lead id rides on the status callback URL.
type TwilioPlacer struct {
	client         *twilio.RestClient
	from           string
	statusCallback string
	voice          string
}

type TwilioOptions struct {
	AccountSID        string
	AuthToken         string
	FromNumber        string
	StatusCallbackURL string
	Voice             string
}

func NewTwilioPlacer(opts TwilioOptions) *TwilioPlacer {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   opts.AccountSID,
		Password:   opts.AuthToken,
		AccountSid: opts.AccountSID,
	})
	voice := opts.Voice
	if voice == "" {
		voice = "Polly.Joanna"
	}
	return &TwilioPlacer{
		client:         client,
		from:           opts.FromNumber,
		statusCallback: opts.StatusCallbackURL,
		voice:          voice,
	}
}

func (p *TwilioPlacer) Name() string { return "twilio" }

// PlaceCall does not honor ctx cancellation; the SDK call is synchronous.
func (p *TwilioPlacer) PlaceCall(ctx context.Context, call OutboundCall) (PlacedCall, error) {
	twiml, err := RenderSayTwiML(call.Message, p.voice)
	if err != nil {
		return PlacedCall{}, err
	}

	params := &twilioApi.CreateCallParams{}
	params.SetTo(call.To)
	params.SetFrom(p.from)
	params.SetTwiml(twiml)
	if p.statusCallback != "" {
		cb, err := statusCallbackURL(p.statusCallback, call.LeadID)
		if err != nil {
			return PlacedCall{}, err
		}
		params.SetStatusCallback(cb)
		params.SetStatusCallbackMethod("POST")
		params.SetStatusCallbackEvent([]string{"initiated", "ringing", "answered", "completed"})
	}

	resp, err := p.client.Api.CreateCall(params)
	if err != nil {
		return PlacedCall{}, fmt.Errorf("telephony: twilio create call: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return PlacedCall{}, errors.New("telephony: twilio returned no call sid")
	}
	return PlacedCall{CallID: *resp.Sid, Provider: p.Name()}, nil
}

func statusCallbackURL(base, leadID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("telephony: bad status callback url: %w", err)
	}
	if leadID != "" {
		q := u.Query()
		q.Set("leadId", leadID)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
