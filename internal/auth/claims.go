package auth

import "github.com/golang-jwt/jwt/v5"

// WebhookClaims bind an outbound webhook delivery to one lead.
// Receivers verify the signature with the shared signing secret.
type WebhookClaims struct {
	jwt.RegisteredClaims

	LeadID string `json:"lead_id"`
}
