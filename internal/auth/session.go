package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/shared"
)

// IdentityProvider exchanges an external authorization code for a verified email.
type IdentityProvider interface {
	ExchangeCodeForEmail(ctx context.Context, code string) (string, error)
}

// IdentityStore finds and creates identities by email.
// FindIdentityByEmail returns a not-found domain error when absent.
type IdentityStore interface {
	FindIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	CreateIdentity(ctx context.Context, email string) (*Identity, error)
}

// TokenPair is a freshly issued access and refresh token with their lifetimes.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// Outcome is the result of authenticating a request.
type Outcome int

const (
	OutcomeAnonymous Outcome = iota
	OutcomeAuthenticated
)

func (o Outcome) String() string {
	if o == OutcomeAuthenticated {
		return "authenticated"
	}
	return "anonymous"
}

// AuthResult describes an authenticated or anonymous request.
// Rotated is set whenever a refresh token was consumed; the caller must
// hand both new tokens back to the client.
type AuthResult struct {
	Outcome Outcome
	Subject string
	Rotated *TokenPair
}

// SessionManager implements login, per-request authentication and refresh.
type SessionManager struct {
	codec      *TokenCodec
	provider   IdentityProvider
	identities IdentityStore
	logger     *zap.Logger
}

// NewSessionManager creates a session manager.
func NewSessionManager(codec *TokenCodec, provider IdentityProvider, identities IdentityStore, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		codec:      codec,
		provider:   provider,
		identities: identities,
		logger:     logger,
	}
}

// Login exchanges an authorization code, ensures the identity exists and
// issues a new token pair for it.
func (m *SessionManager) Login(ctx context.Context, code string) (*TokenPair, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.ErrAuthenticationFailed
	}

	email, err := m.provider.ExchangeCodeForEmail(ctx, code)
	if err != nil {
		m.logger.Warn("authorization code exchange failed", zap.Error(err))
		return nil, shared.WrapError(shared.ErrorTypeAuthenticationFailed, "authentication failed", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		m.logger.Warn("identity provider returned no email")
		return nil, shared.ErrAuthenticationFailed
	}

	identity, err := m.ensureIdentity(ctx, email)
	if err != nil {
		return nil, err
	}

	pair, err := m.issuePair(identity.Email)
	if err != nil {
		return nil, err
	}

	m.logger.Info("user logged in", zap.Int64("user_id", identity.ID))
	return pair, nil
}

func (m *SessionManager) ensureIdentity(ctx context.Context, email string) (*Identity, error) {
	identity, err := m.identities.FindIdentityByEmail(ctx, email)
	if err == nil {
		return identity, nil
	}
	if !shared.IsNotFoundError(err) {
		return nil, err
	}

	identity, err = m.identities.CreateIdentity(ctx, email)
	if shared.IsConflictError(err) {
		// A concurrent login created it first.
		return m.identities.FindIdentityByEmail(ctx, email)
	}
	return identity, err
}

// Refresh verifies a refresh token and rotates both tokens.
func (m *SessionManager) Refresh(refreshToken string) (*TokenPair, error) {
	_, pair, err := m.rotate(refreshToken)
	return pair, err
}

func (m *SessionManager) rotate(refreshToken string) (string, *TokenPair, error) {
	claims, err := m.codec.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return "", nil, shared.WrapError(shared.ErrorTypeAuthenticationFailed, "invalid refresh token", err)
	}
	pair, err := m.issuePair(claims.Subject)
	if err != nil {
		return "", nil, err
	}
	return claims.Subject, pair, nil
}

// Authenticate classifies a request from the tokens it carried.
//
// A present refresh token always wins: it either rotates the session or the
// request is rejected as unauthenticated without consulting the access token.
// An access token alone that fails verification yields an anonymous request.
func (m *SessionManager) Authenticate(accessToken, refreshToken string) (*AuthResult, error) {
	if refreshToken != "" {
		subject, pair, err := m.rotate(refreshToken)
		if err != nil {
			if shared.IsInternalError(err) {
				return nil, err
			}
			m.logger.Debug("refresh token rejected", zap.Error(err))
			return nil, shared.WrapError(shared.ErrorTypeUnauthenticated, "invalid refresh token", err)
		}
		return &AuthResult{Outcome: OutcomeAuthenticated, Subject: subject, Rotated: pair}, nil
	}

	if accessToken == "" {
		return &AuthResult{Outcome: OutcomeAnonymous}, nil
	}

	claims, err := m.codec.Verify(accessToken, TokenKindAccess)
	if err != nil {
		if !errors.Is(err, ErrTokenExpired) {
			m.logger.Debug("access token rejected", zap.Error(err))
		}
		return &AuthResult{Outcome: OutcomeAnonymous}, nil
	}
	return &AuthResult{Outcome: OutcomeAuthenticated, Subject: claims.Subject}, nil
}

func (m *SessionManager) issuePair(subject string) (*TokenPair, error) {
	access, err := m.codec.Issue(subject, TokenKindAccess)
	if err != nil {
		return nil, shared.WrapInternal("failed to issue access token", err)
	}
	refresh, err := m.codec.Issue(subject, TokenKindRefresh)
	if err != nil {
		return nil, shared.WrapInternal("failed to issue refresh token", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    m.codec.TTL(TokenKindAccess),
		RefreshTTL:   m.codec.TTL(TokenKindRefresh),
	}, nil
}
