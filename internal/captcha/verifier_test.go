package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/pkg/config"
)

func newTestVerifier(serverURL string) *HTTPVerifier {
	return NewHTTPVerifier(config.CaptchaConfig{
		Secret:    "captcha-secret",
		VerifyURL: serverURL,
		Timeout:   2 * time.Second,
	}, zap.NewNop())
}

func TestVerifyAcceptsGenuineToken(t *testing.T) {
	var form map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	ok, err := newTestVerifier(server.URL).Verify(context.Background(), "token-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"captcha-secret"}, form["secret"])
	assert.Equal(t, []string{"token-1"}, form["response"])
}

func TestVerifyRejectionIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer server.Close()

	ok, err := newTestVerifier(server.URL).Verify(context.Background(), "bogus")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestVerifier(server.URL).Verify(context.Background(), "token-1")
	require.Error(t, err)
}
