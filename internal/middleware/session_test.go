package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notioncoach/notioncoach-api/internal/models"
	"github.com/notioncoach/notioncoach-api/pkg/config"
)

const testSessionSecret = "test-session-secret"

const testIssuer = "https://sessions.example.com"

func signSession(t *testing.T, secret, issuer, subject, role string) string {
	t.Helper()
	claims := &models.SessionClaims{
		Metadata: models.SessionMetadata{Role: role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newVerifier() *SessionVerifier {
	return NewSessionVerifier(config.SessionConfig{Secret: testSessionSecret, Issuer: testIssuer})
}

func TestVerifyValidToken(t *testing.T) {
	token := signSession(t, testSessionSecret, testIssuer, "user_1", "coach")

	claims, err := newVerifier().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.PrincipalID())
	assert.Equal(t, models.RoleCoach, claims.StoredRole())
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	token := signSession(t, "wrong-secret", testIssuer, "user_1", "coach")

	_, err := newVerifier().Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	token := signSession(t, testSessionSecret, "https://evil.example.com", "user_1", "coach")

	_, err := newVerifier().Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	token := signSession(t, testSessionSecret, testIssuer, "", "coach")

	_, err := newVerifier().Verify(token)
	assert.Error(t, err)
}

func sessionTestRouter(verifier *SessionVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalSession(verifier))
	r.GET("/whoami", func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			c.JSON(http.StatusOK, gin.H{"id": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": claims.PrincipalID()})
	})
	return r
}

func TestOptionalSessionFromBearerHeader(t *testing.T) {
	r := sessionTestRouter(newVerifier())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signSession(t, testSessionSecret, testIssuer, "user_1", ""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"user_1"}`, w.Body.String())
}

func TestOptionalSessionFromCookie(t *testing.T) {
	r := sessionTestRouter(newVerifier())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: signSession(t, testSessionSecret, testIssuer, "user_2", "athlete")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"user_2"}`, w.Body.String())
}

func TestOptionalSessionNeverBlocks(t *testing.T) {
	r := sessionTestRouter(newVerifier())

	for name, header := range map[string]string{
		"no token":       "",
		"garbage token":  "Bearer not-a-jwt",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"forged session": "Bearer " + signSession(t, "wrong-secret", testIssuer, "user_3", ""),
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, name)
		assert.JSONEq(t, `{"id":""}`, w.Body.String(), name)
	}
}
