package telephony

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVapiClient_PlaceCall(t *testing.T) {
	var got vapiCallRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/call/phone" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key-1" {
			t.Errorf("missing bearer auth")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "call-123", "status": "queued"})
	}))
	defer srv.Close()

	c := NewVapiClient(VapiOptions{BaseURL: srv.URL + "/", APIKey: "key-1", PhoneNumberID: "pn-1"})
	placed, err := c.PlaceCall(context.Background(), OutboundCall{
		To:            "+15550001111",
		Message:       "Hi, new lead",
		LeadID:        "lead-1",
		Urgency:       "critical",
		PassengerName: "Dana",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if placed.CallID != "call-123" || placed.Provider != "vapi" {
		t.Fatalf("unexpected result %+v", placed)
	}
	if got.PhoneNumberID != "pn-1" || got.Customer.Number != "+15550001111" {
		t.Fatalf("unexpected body %+v", got)
	}
	if got.Assistant.FirstMessage != "Hi, new lead" || got.Assistant.Voice.Provider != "11labs" {
		t.Fatalf("unexpected assistant %+v", got.Assistant)
	}
	if got.Metadata["leadId"] != "lead-1" || got.Metadata["urgency"] != "critical" || got.Metadata["passengerName"] != "Dana" {
		t.Fatalf("unexpected metadata %v", got.Metadata)
	}
}

func TestVapiClient_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad number", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewVapiClient(VapiOptions{BaseURL: srv.URL, APIKey: "k", PhoneNumberID: "p"})
	if _, err := c.PlaceCall(context.Background(), OutboundCall{To: "+1", Message: "m"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVapiClient_RequiresCredentials(t *testing.T) {
	c := NewVapiClient(VapiOptions{BaseURL: "http://unused"})
	if _, err := c.PlaceCall(context.Background(), OutboundCall{To: "+1", Message: "m"}); err == nil {
		t.Fatalf("expected error")
	}
}
