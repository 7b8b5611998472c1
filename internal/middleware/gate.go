package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/internal/directory"
	"github.com/notioncoach/notioncoach-api/internal/gate"
)

// AccessGate intercepts every request, resolves the caller into a gate
// principal and applies the route policy. Role comes from session claims;
// admin status is resolved through the directory and fails closed: any
// lookup error on a protected path redirects to / and is only logged.
func AccessGate(dir directory.Client, admins *gate.AdminChecker, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if gate.Exempt(path) {
			c.Next()
			return
		}

		var principal *gate.Principal
		claims := ClaimsFromContext(c)
		if claims != nil {
			principal = &gate.Principal{
				ID:   claims.PrincipalID(),
				Role: claims.StoredRole(),
			}

			// The directory lookup only matters where the decision can
			// depend on admin status.
			if pathIsProtected(path) {
				record, err := dir.GetUser(c.Request.Context(), principal.ID)
				if err != nil {
					logger.Warn("gate failed to resolve principal, denying",
						zap.String("path", path),
						zap.String("principal_id", principal.ID),
						zap.Error(err),
					)
					c.Redirect(http.StatusFound, "/")
					c.Abort()
					return
				}
				if email, ok := record.PrimaryEmail(); ok {
					principal.IsAdmin = admins.IsAdminEmail(email)
				}
			}
		}

		decision := gate.Decide(path, principal)
		if decision.Allow {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, decision.RedirectTo)
		c.Abort()
	}
}

func pathIsProtected(path string) bool {
	return path == "/dashboard" || strings.HasPrefix(path, "/dashboard/") ||
		path == "/admin" || strings.HasPrefix(path, "/admin/")
}
