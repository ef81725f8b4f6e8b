package auth

import (
	"testing"
	"time"
)

func TestSignAndVerify(t *testing.T) {
	s, err := NewSigner("secret", "ASAP Jet", 5*time.Minute)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	now := time.Unix(1700000000, 0).UTC()
	tok, err := s.Sign(now, "lead-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected token string")
	}

	claims, err := s.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.LeadID != "lead-1" || claims.Issuer != "ASAP Jet" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	s, _ := NewSigner("secret", "", time.Minute)
	now := time.Unix(1700000000, 0).UTC()
	tok, err := s.Sign(now, "lead-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Verify(tok, now.Add(10*time.Minute)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a, _ := NewSigner("secret-a", "", time.Minute)
	b, _ := NewSigner("secret-b", "", time.Minute)
	now := time.Now()
	tok, _ := a.Sign(now, "lead-1")
	if _, err := b.Verify(tok, now); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestNewSignerRequiresSecret(t *testing.T) {
	if _, err := NewSigner("", "", 0); err == nil {
		t.Fatalf("expected error")
	}
}
