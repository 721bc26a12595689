package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAccessToken(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		header string
		want   string
	}{
		{"cookie preferred", &http.Cookie{Name: AccessTokenCookie, Value: "cookie_token"}, "Bearer header_token", "cookie_token"},
		{"header fallback", nil, "Bearer header_token", "header_token"},
		{"empty cookie falls back to header", &http.Cookie{Name: AccessTokenCookie, Value: ""}, "Bearer header_token", "header_token"},
		{"scheme is case insensitive", nil, "bearer header_token", "header_token"},
		{"no token", nil, "", ""},
		{"basic auth ignored", nil, "Basic user:pass", ""},
		{"bearer without token", nil, "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, ExtractAccessToken(req))
		})
	}
}
