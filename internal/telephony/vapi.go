package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// VapiOptions configures the Vapi outbound call client.
type VapiOptions struct {
	BaseURL       string
	APIKey        string
	PhoneNumberID string
	BrandName     string
	Timeout       time.Duration
}

// VapiClient places calls through Vapi's phone call API. A short-lived
// assistant reads the notification and hangs up.
type VapiClient struct {
	baseURL       string
	apiKey        string
	phoneNumberID string
	systemPrompt  string
	http          *http.Client
}

func NewVapiClient(opts VapiOptions) *VapiClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	brand := opts.BrandName
	if brand == "" {
		brand = "ASAP Jet"
	}
	return &VapiClient{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		apiKey:        opts.APIKey,
		phoneNumberID: opts.PhoneNumberID,
		systemPrompt: "You are a professional notification assistant for " + brand +
			". Deliver the notification message clearly and professionally. After delivering the message, confirm the listener understood and end the call politely.",
		http: &http.Client{Timeout: timeout},
	}
}

func (c *VapiClient) Name() string { return "vapi" }

type vapiCallRequest struct {
	PhoneNumberID string            `json:"phoneNumberId"`
	Customer      vapiCustomer      `json:"customer"`
	Assistant     vapiAssistant     `json:"assistant"`
	Metadata      map[string]string `json:"metadata"`
}

type vapiCustomer struct {
	Number string `json:"number"`
}

type vapiAssistant struct {
	FirstMessage string    `json:"firstMessage"`
	Model        vapiModel `json:"model"`
	Voice        vapiVoice `json:"voice"`
}

type vapiModel struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Messages []vapiMessage `json:"messages"`
}

type vapiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type vapiVoice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

type vapiCallResponse struct {
	ID string `json:"id"`
}

func (c *VapiClient) PlaceCall(ctx context.Context, call OutboundCall) (PlacedCall, error) {
	if c.apiKey == "" || c.phoneNumberID == "" {
		return PlacedCall{}, errors.New("telephony: vapi credentials not configured")
	}
	if strings.TrimSpace(call.To) == "" {
		return PlacedCall{}, errors.New("telephony: destination number is required")
	}

	payload := vapiCallRequest{
		PhoneNumberID: c.phoneNumberID,
		Customer:      vapiCustomer{Number: call.To},
		Assistant: vapiAssistant{
			FirstMessage: call.Message,
			Model: vapiModel{
				Provider: "openai",
				Model:    "gpt-3.5-turbo",
				Messages: []vapiMessage{{Role: "system", Content: c.systemPrompt}},
			},
			Voice: vapiVoice{Provider: "11labs", VoiceID: "rachel"},
		},
		Metadata: map[string]string{
			"leadId":        call.LeadID,
			"urgency":       call.Urgency,
			"passengerName": call.PassengerName,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return PlacedCall{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call/phone", bytes.NewReader(body))
	if err != nil {
		return PlacedCall{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return PlacedCall{}, fmt.Errorf("telephony: vapi request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return PlacedCall{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PlacedCall{}, fmt.Errorf("telephony: vapi returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out vapiCallResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return PlacedCall{}, fmt.Errorf("telephony: decode vapi response: %w", err)
	}
	return PlacedCall{CallID: out.ID, Provider: c.Name()}, nil
}
