package middleware

import (
	"net/http"
	"time"

	"github.com/upb/channel-links/internal/auth"
)

// Session cookie names shared with the browser client.
const (
	AccessTokenCookie  = "token"
	RefreshTokenCookie = "refreshToken"
)

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Secure bool
	Domain string
}

// SetSession writes both tokens of pair as HttpOnly cookies whose max-age
// matches each token's lifetime.
func (c CookieConfig) SetSession(w http.ResponseWriter, pair *auth.TokenPair) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, pair.AccessToken, pair.AccessTTL))
	http.SetCookie(w, c.cookie(RefreshTokenCookie, pair.RefreshToken, pair.RefreshTTL))
}

// ClearSession expires both session cookies.
func (c CookieConfig) ClearSession(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := c.cookie(name, "", 0)
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (c CookieConfig) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// readCookie returns the named cookie's value or "".
func readCookie(r *http.Request, name string) string {
	if cookie, err := r.Cookie(name); err == nil {
		return cookie.Value
	}
	return ""
}

// RefreshTokenFromRequest returns the refresh token cookie's value.
func RefreshTokenFromRequest(r *http.Request) string {
	return readCookie(r, RefreshTokenCookie)
}
