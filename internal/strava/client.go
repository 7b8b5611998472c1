// Package strava wraps the fitness API's token endpoint. Only the code
// exchange lives here; the rest of the OAuth flow belongs to the provider.
package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/pkg/config"
)

// Token is the provider's token-exchange response.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	TokenType    string `json:"token_type"`
}

// TokenExchanger swaps an authorization code for an access token.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (*Token, error)
}

// Client is the HTTP implementation of TokenExchanger.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	http         *http.Client
	logger       *zap.Logger
}

// NewClient builds a Strava token client from configuration.
func NewClient(cfg config.StravaConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     cfg.TokenURL,
		http:         &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// Exchange performs the authorization-code grant against the token endpoint.
func (c *Client) Exchange(ctx context.Context, code string) (*Token, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"code":          code,
		"grant_type":    "authorization_code",
	})
	if err != nil {
		return nil, fmt.Errorf("strava exchange: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("strava exchange: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("strava exchange: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("strava token exchange failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return nil, fmt.Errorf("strava exchange: unexpected status %d", resp.StatusCode)
	}

	token := &Token{}
	if err := json.NewDecoder(resp.Body).Decode(token); err != nil {
		return nil, fmt.Errorf("strava exchange: decode response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("strava exchange: response carried no access token")
	}
	return token, nil
}
