package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/notioncoach/notioncoach-api/internal/models"
	"github.com/notioncoach/notioncoach-api/pkg/config"
)

// ContextClaimsKey is the gin context key storing verified session claims.
const ContextClaimsKey = "sessionClaims"

// sessionCookie is the identity provider's session cookie name.
const sessionCookie = "__session"

// SessionVerifier validates identity-provider session tokens. The provider
// signs them with a shared secret and embeds the role metadata mirror.
type SessionVerifier struct {
	secret []byte
	issuer string
}

// NewSessionVerifier builds a verifier from configuration.
func NewSessionVerifier(cfg config.SessionConfig) *SessionVerifier {
	return &SessionVerifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// Verify parses and validates a session token, returning its claims.
func (v *SessionVerifier) Verify(token string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}

// OptionalSession attaches verified claims when a session token is present
// but never blocks the request. The gate and handlers decide what an absent
// session means for a given path.
func OptionalSession(verifier *SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the verified session claims, or nil when the
// request is unauthenticated.
func ClaimsFromContext(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
