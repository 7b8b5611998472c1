// Package captcha proxies CAPTCHA token verification to the provider.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/pkg/config"
)

// Verifier checks whether a client-side CAPTCHA token is genuine.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// HTTPVerifier calls the provider's siteverify endpoint.
type HTTPVerifier struct {
	secret    string
	verifyURL string
	http      *http.Client
	logger    *zap.Logger
}

// NewHTTPVerifier builds a verifier from configuration.
func NewHTTPVerifier(cfg config.CaptchaConfig, logger *zap.Logger) *HTTPVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPVerifier{
		secret:    cfg.Secret,
		verifyURL: cfg.VerifyURL,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type verifyPayload struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to the provider. A clean "not a human" answer is
// success=false with a nil error; only transport failures return errors.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("captcha verify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha verify: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("captcha verify: unexpected status %d", resp.StatusCode)
	}

	payload := verifyPayload{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("captcha verify: decode response: %w", err)
	}
	if !payload.Success && len(payload.ErrorCodes) > 0 {
		v.logger.Debug("captcha rejected", zap.Strings("error_codes", payload.ErrorCodes))
	}
	return payload.Success, nil
}
