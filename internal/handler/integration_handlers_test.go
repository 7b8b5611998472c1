package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/internal/directory"
	"github.com/notioncoach/notioncoach-api/internal/middleware"
	"github.com/notioncoach/notioncoach-api/internal/service"
	"github.com/notioncoach/notioncoach-api/internal/strava"
	"github.com/notioncoach/notioncoach-api/pkg/config"
)

type stubExchanger struct {
	token *strava.Token
	err   error
}

func (s *stubExchanger) Exchange(ctx context.Context, code string) (*strava.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.token, nil
}

type stubVerifier struct {
	ok  bool
	err error
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (bool, error) {
	return s.ok, s.err
}

func TestStravaCallbackRedirectsWithToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStravaHandler(&stubExchanger{token: &strava.Token{AccessToken: "at_1"}}, zap.NewNop())
	r := gin.New()
	r.GET("/api/strava/callback", h.Callback)

	req := httptest.NewRequest(http.MethodGet, "/api/strava/callback?code=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/strava/success?access_token=at_1", w.Header().Get("Location"))
}

func TestStravaCallbackMissingCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStravaHandler(&stubExchanger{}, zap.NewNop())
	r := gin.New()
	r.GET("/api/strava/callback", h.Callback)

	req := httptest.NewRequest(http.MethodGet, "/api/strava/callback", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing authorization code"}`, w.Body.String())
}

func TestStravaCallbackExchangeFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStravaHandler(&stubExchanger{err: errors.New("provider down")}, zap.NewNop())
	r := gin.New()
	r.GET("/api/strava/callback", h.Callback)

	req := httptest.NewRequest(http.MethodGet, "/api/strava/callback?code=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestVerifyCaptchaAnswersBothWays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for want, verifier := range map[bool]*stubVerifier{
		true:  {ok: true},
		false: {ok: false},
	} {
		h := NewCaptchaHandler(verifier, nil, zap.NewNop())
		r := gin.New()
		r.POST("/api/verify-recaptcha", h.Verify)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-recaptcha", strings.NewReader(`{"token":"tok"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		if want {
			assert.JSONEq(t, `{"success":true}`, w.Body.String())
		} else {
			assert.JSONEq(t, `{"success":false}`, w.Body.String())
		}
	}
}

func TestVerifyCaptchaRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCaptchaHandler(&stubVerifier{ok: true}, nil, zap.NewNop())
	r := gin.New()
	r.POST("/api/verify-recaptcha", h.Verify)

	req := httptest.NewRequest(http.MethodPost, "/api/verify-recaptcha", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func setRoleRouter(dir directory.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewRoleService(dir, nil, nil, zap.NewNop())
	h := NewRoleHandler(svc, nil)
	verifier := middleware.NewSessionVerifier(config.SessionConfig{Secret: handlerTestSecret, Issuer: handlerTestIssuer})
	r := gin.New()
	r.Use(middleware.OptionalSession(verifier))
	r.PUT("/api/me/role", h.SetRole)
	return r
}

func TestSetRoleEndpoint(t *testing.T) {
	dir := &stubDirectory{records: map[string]*directory.Record{
		"user_1": {ID: "user_1", EmailAddresses: []directory.EmailAddress{{EmailAddress: "a@example.com"}}},
	}}
	r := setRoleRouter(dir)

	w := doRequest(r, t, http.MethodPut, "/api/me/role", "user_1", `{"role":"coach"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestSetRoleRequiresSession(t *testing.T) {
	r := setRoleRouter(&stubDirectory{})

	w := doRequest(r, t, http.MethodPut, "/api/me/role", "", `{"role":"coach"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetRoleConflict(t *testing.T) {
	dir := &stubDirectory{records: map[string]*directory.Record{
		"user_1": {
			ID:             "user_1",
			EmailAddresses: []directory.EmailAddress{{EmailAddress: "a@example.com"}},
			UnsafeMetadata: map[string]interface{}{"role": "athlete"},
		},
	}}
	r := setRoleRouter(dir)

	w := doRequest(r, t, http.MethodPut, "/api/me/role", "user_1", `{"role":"coach"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"role is already set"}`, w.Body.String())
}
