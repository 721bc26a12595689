package auth

import (
	"net/http"
	"strings"
)

// AccessTokenCookie is the cookie browsers send the access token in.
const AccessTokenCookie = "access_token"

// ExtractAccessToken returns the bearer token of r. The cookie wins over the
// Authorization header so browser sessions keep working behind proxies that
// strip headers.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
