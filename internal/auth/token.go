package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidSignature is returned when a token was tampered with, signed
	// with another secret or algorithm, or is not a JWT at all.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrTokenExpired is returned when a correctly signed token is past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrWrongTokenKind is returned when an access token is presented as a
	// refresh token or the other way round.
	ErrWrongTokenKind = errors.New("wrong token kind")

	// ErrEmptySecret is returned when the codec is built without a signing secret.
	ErrEmptySecret = errors.New("token signing secret is empty")
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims are the claims carried by every session token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"typ"`
}

// TokenConfig holds configuration for TokenCodec
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenCodec issues and verifies HS512-signed session tokens.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenCodecOption customizes a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a codec. The secret is captured once.
func NewTokenCodec(cfg TokenConfig, opts ...TokenCodecOption) (*TokenCodec, error) {
	if cfg.Secret == "" {
		return nil, ErrEmptySecret
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive (access=%s, refresh=%s)", cfg.AccessTTL, cfg.RefreshTTL)
	}

	c := &TokenCodec{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime configured for a token kind.
func (c *TokenCodec) TTL(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue mints a token of the given kind for subject.
func (c *TokenCodec) Issue(subject string, kind TokenKind) (string, error) {
	if kind != TokenKindAccess && kind != TokenKindRefresh {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := c.now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(kind))),
		},
		Kind: kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature, then expiry, then kind, and returns the claims.
//
// A token whose expiry equals the current second is already expired.
func (c *TokenCodec) Verify(tokenString string, kind TokenKind) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Unix() <= c.now().Unix() {
		return nil, ErrTokenExpired
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s, got %q", ErrWrongTokenKind, kind, claims.Kind)
	}

	return claims, nil
}
