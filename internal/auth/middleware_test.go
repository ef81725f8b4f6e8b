package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequireSharedSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"match", "s3cret", "Bearer s3cret", http.StatusOK},
		{"wrong", "s3cret", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"no bearer prefix", "s3cret", "s3cret", http.StatusUnauthorized},
		{"secret not configured", "", "Bearer ", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", RequireSharedSecret(tc.secret), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
		if tc.want == http.StatusUnauthorized && w.Body.String() != `{"error":"Unauthorized"}` {
			t.Fatalf("%s: expected uniform body, got %s", tc.name, w.Body.String())
		}
	}
}
