package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signer issues and verifies short-lived HS256 tokens for outbound webhooks.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

/* ===================== SIGN ===================== */

func (s *Signer) Sign(now time.Time, leadID string) (string, error) {
	if leadID == "" {
		return "", errors.New("auth: lead id is required")
	}
	claims := WebhookClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   leadID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		LeadID: leadID,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

/* ===================== VERIFY ===================== */

func (s *Signer) Verify(tokenString string, now time.Time) (WebhookClaims, error) {
	var claims WebhookClaims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return WebhookClaims{}, err
	}
	if claims.LeadID == "" || claims.LeadID != claims.Subject {
		return WebhookClaims{}, errors.New("auth: lead_id missing or mismatched")
	}
	return claims, nil
}
