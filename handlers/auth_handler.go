package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/middleware"
	"github.com/upb/channel-links/utils"
	"go.uber.org/zap"
)

// SessionService is the session surface the auth endpoints drive
type SessionService interface {
	Login(ctx context.Context, code string) (*auth.TokenPair, error)
	Refresh(refreshToken string) (*auth.TokenPair, error)
}

// AuthorizationURLBuilder builds the identity provider's sign-in URL
type AuthorizationURLBuilder interface {
	AuthorizationURL(state string) string
}

// LoginRequest carries the authorization code returned by the identity provider
type LoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// LoginURLResponse points the browser at the identity provider
type LoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// AuthHandler handles login, refresh and logout
type AuthHandler struct {
	sessions  SessionService
	authorize AuthorizationURLBuilder
	cookies   middleware.CookieConfig
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions SessionService, authorize AuthorizationURLBuilder, cookies middleware.CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		authorize: authorize,
		cookies:   cookies,
		logger:    logger,
	}
}

// HandleLoginURL handles GET /api/auth/login
func (h *AuthHandler) HandleLoginURL(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	writeOK(w, LoginURLResponse{URL: h.authorize.AuthorizationURL(state), State: state}, h.logger)
}

// HandleLogin handles POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	pair, err := h.sessions.Login(r.Context(), req.Code)
	if err != nil {
		h.logger.Info("login failed",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.cookies.SetSession(w, pair)
	utils.WriteNoContent(w)
}

// HandleRefresh handles POST /api/auth/refresh
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := middleware.RefreshTokenFromRequest(r)
	if refreshToken == "" {
		if err := utils.WriteUnauthorized(w, "invalid refresh token"); err != nil {
			h.logger.Error("failed to write unauthorized response", zap.Error(err))
		}
		return
	}

	pair, err := h.sessions.Refresh(refreshToken)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.cookies.SetSession(w, pair)
	utils.WriteNoContent(w)
}

// HandleLogout handles POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSession(w)
	utils.WriteNoContent(w)
}
