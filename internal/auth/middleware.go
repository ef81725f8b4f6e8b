package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireSharedSecret admits requests whose bearer token equals secret.
// Every failure, including an unset secret, gets the same 401 body.
func RequireSharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !BearerMatches(c.GetHeader(authorizationHeader), secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// BearerMatches compares the header's bearer token with secret.
// An empty secret never matches.
func BearerMatches(header, secret string) bool {
	if secret == "" {
		return false
	}
	raw := strings.TrimSpace(header)
	if !strings.HasPrefix(raw, bearerPrefix) {
		return false
	}
	tok := strings.TrimPrefix(raw, bearerPrefix)
	return subtle.ConstantTimeCompare([]byte(tok), []byte(secret)) == 1
}
