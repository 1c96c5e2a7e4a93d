package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/utils"
)

// SessionAuthenticator classifies a request from the tokens it carried.
type SessionAuthenticator interface {
	Authenticate(accessToken, refreshToken string) (*auth.AuthResult, error)
}

// IdentityFinder resolves a token subject to a stored identity.
type IdentityFinder interface {
	FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	sessions   SessionAuthenticator
	identities IdentityFinder
	cookies    CookieConfig
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionAuthenticator, identities IdentityFinder, cookies CookieConfig, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		identities: identities,
		cookies:    cookies,
		logger:     logger,
	}
}

// Authenticate resolves the session cookies into an identity on the request
// context. When a refresh token was consumed, both rotated tokens are written
// back as cookies before the handler runs. A rejected refresh token ends the
// request with 401; every other failure leaves the request anonymous.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		result, err := m.sessions.Authenticate(extractToken(r), RefreshTokenFromRequest(r))
		if err != nil {
			if shared.IsUnauthenticatedError(err) {
				m.logger.Info("refresh token rejected",
					zap.String("request_id", requestID),
					zap.Error(err))
				_ = utils.WriteUnauthorized(w, "Invalid refresh token")
				return
			}
			m.logger.Error("session authentication failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}

		if result.Rotated != nil {
			m.cookies.SetSession(w, result.Rotated)
		}

		if result.Outcome != auth.OutcomeAuthenticated {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.identities.FindIdentityByEmail(ctx, result.Subject)
		if err != nil {
			if !shared.IsNotFoundError(err) {
				m.logger.Error("identity lookup failed",
					zap.String("request_id", requestID),
					zap.Error(err))
				_ = utils.WriteInternalServerError(w, "")
				return
			}
			// Valid token for a user that has since been deleted.
			m.logger.Warn("token subject has no identity",
				zap.String("request_id", requestID))
			next.ServeHTTP(w, r)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.Int64("user_id", identity.ID),
			zap.Bool("rotated", result.Rotated != nil))

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, *identity)))
	})
}

// RequireAuth rejects anonymous requests with 401. It must run after Authenticate.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentityFromContext(r.Context()); !ok {
			m.logger.Debug("anonymous request to protected route",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken extracts the access token from an "Authorization: Bearer"
// header or the "token" cookie. The header takes precedence.
func extractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	return readCookie(r, AccessTokenCookie)
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
