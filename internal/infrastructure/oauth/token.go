package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Endpoint describes one provider's token endpoint and the OAuth application
// registered with it.
type Endpoint struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// TokenResponse is the provider's token grant. Salesforce additionally
// returns the tenant's instance_url, and omits refresh_token on refresh
// grants (it does not rotate refresh tokens).
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type,omitempty"`
	InstanceURL  string `json:"instance_url,omitempty"`
}

// ExpiresAt converts expires_in into an absolute expiry. Salesforce does not
// send expires_in on refresh grants; fall back to a conservative window.
func (t *TokenResponse) ExpiresAt(now time.Time) time.Time {
	expiresIn := t.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 1800
	}
	return now.Add(time.Duration(expiresIn) * time.Second)
}

// TokenError is a non-2xx response from a token endpoint.
type TokenError struct {
	StatusCode int
	Body       string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Permanent reports whether the grant is unrecoverable (revoked or invalid)
// as opposed to a transient provider failure.
func (e *TokenError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client performs authorization-code and refresh-token exchanges against
// provider token endpoints.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ExchangeCode trades an authorization code for the initial token grant.
func (c *Client) ExchangeCode(ctx context.Context, ep Endpoint, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", ep.ClientID)
	form.Set("client_secret", ep.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", ep.RedirectURI)

	return c.post(ctx, ep.TokenURL, form)
}

// Refresh trades a refresh token for a fresh access token.
func (c *Client) Refresh(ctx context.Context, ep Endpoint, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", ep.ClientID)
	form.Set("client_secret", ep.ClientSecret)
	form.Set("refresh_token", refreshToken)

	resp, err := c.post(ctx, ep.TokenURL, form)
	if err != nil {
		return nil, err
	}

	// Providers that do not rotate refresh tokens omit the field; keep the
	// one we already hold.
	if resp.RefreshToken == "" {
		resp.RefreshToken = refreshToken
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, tokenURL string, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Token endpoint request failed",
			zap.String("url", tokenURL),
			zap.Error(err))
		return nil, fmt.Errorf("token endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Token endpoint rejected grant",
			zap.String("url", tokenURL),
			zap.Int("status_code", resp.StatusCode))
		return nil, &TokenError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var token TokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, &TokenError{StatusCode: resp.StatusCode, Body: "response missing access_token"}
	}

	return &token, nil
}
