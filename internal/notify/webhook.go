package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"charter-leads/internal/leads"
)

const signatureHeader = "X-Signature"

// RequestSigner issues a short-lived token binding a request to a lead.
type RequestSigner interface {
	Sign(now time.Time, leadID string) (string, error)
}

// WebhookChannel POSTs the lead JSON to an automation endpoint.
type WebhookChannel struct {
	url    string
	signer RequestSigner
	http   *http.Client
	clock  func() time.Time
}

// NewWebhookChannel accepts a nil signer for unsigned delivery.
func NewWebhookChannel(url string, signer RequestSigner) *WebhookChannel {
	return &WebhookChannel{
		url:    url,
		signer: signer,
		http:   &http.Client{Timeout: 10 * time.Second},
		clock:  time.Now,
	}
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Send(ctx context.Context, l leads.Lead) error {
	body, err := json.Marshal(l)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.signer != nil {
		sig, err := c.signer.Sign(c.clock(), l.ID)
		if err != nil {
			return fmt.Errorf("notify: sign webhook: %w", err)
		}
		req.Header.Set(signatureHeader, sig)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify: webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notify: webhook failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
