package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/upb/channel-links/config"
	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
)

// maxTokenResponseBytes bounds the token endpoint body we are willing to read.
const maxTokenResponseBytes = 1 << 20

// TokenResponse represents the OAuth2 token endpoint response
type TokenResponse struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// AzureIdentityProvider exchanges Azure AD v2 authorization codes for the
// signed-in user's email.
type AzureIdentityProvider struct {
	cfg        config.OAuthConfig
	httpClient *http.Client
	logger     *zap.Logger
}

var _ auth.IdentityProvider = (*AzureIdentityProvider)(nil)

// NewAzureIdentityProvider creates a new identity provider client
func NewAzureIdentityProvider(cfg config.OAuthConfig, logger *zap.Logger) *AzureIdentityProvider {
	return &AzureIdentityProvider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// AuthorizationURL returns the URL the browser is sent to for sign-in.
func (p *AzureIdentityProvider) AuthorizationURL(state string) string {
	q := url.Values{
		"client_id":     {p.cfg.ClientID},
		"response_type": {"code"},
		"redirect_uri":  {p.cfg.RedirectURI},
		"response_mode": {"query"},
		"scope":         {p.cfg.Scope},
	}
	if state != "" {
		q.Set("state", state)
	}
	return p.cfg.AuthorizeURL() + "?" + q.Encode()
}

// ExchangeCodeForEmail redeems code at the token endpoint and reads the email
// from the returned ID token. The ID token comes straight from the token
// endpoint over TLS, so its signature is not re-checked here.
func (p *AzureIdentityProvider) ExchangeCodeForEmail(ctx context.Context, code string) (string, error) {
	idToken, err := p.exchangeCode(ctx, code)
	if err != nil {
		p.logger.Warn("authorization code exchange failed", zap.Error(err))
		return "", shared.WrapExternal("authorization code exchange failed", err)
	}

	email, err := emailFromIDToken(idToken)
	if err != nil {
		return "", shared.WrapExternal("unreadable id token", err)
	}
	return email, nil
}

func (p *AzureIdentityProvider) exchangeCode(ctx context.Context, code string) (string, error) {
	if p.cfg.TenantID == "" || p.cfg.ClientID == "" {
		return "", fmt.Errorf("identity provider not configured")
	}

	data := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {p.cfg.ClientID},
		"code":         {code},
		"redirect_uri": {p.cfg.RedirectURI},
		"scope":        {p.cfg.Scope},
	}
	if p.cfg.ClientSecret != "" {
		data.Set("client_secret", p.cfg.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenURL(), strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}

	if tokenResp.IDToken == "" {
		return "", fmt.Errorf("no id_token in response")
	}

	return tokenResp.IDToken, nil
}

// emailFromIDToken reads the email claim, falling back to the claims Azure
// uses for accounts without one.
func emailFromIDToken(idToken string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return "", fmt.Errorf("parse id token: %w", err)
	}

	for _, key := range []string{"email", "preferred_username", "upn"} {
		if v, ok := claims[key].(string); ok && strings.Contains(v, "@") {
			return strings.ToLower(strings.TrimSpace(v)), nil
		}
	}
	return "", nil
}
