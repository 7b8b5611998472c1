// Package gate decides, for every inbound path, whether a principal may pass
// or must be redirected. The decision is a pure function of path and resolved
// principal; the HTTP adapter in internal/middleware applies it.
package gate

import (
	"strings"

	"github.com/notioncoach/notioncoach-api/internal/models"
)

// Principal is the resolved caller identity. IsAdmin is computed from the
// email allow-list and always takes precedence over the stored role.
type Principal struct {
	ID      string
	Role    models.Role
	IsAdmin bool
}

// Decision is either pass-through or a redirect to another path.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// routePolicy maps a path prefix onto the roles permitted beneath it.
type routePolicy struct {
	prefix string
	roles  []models.Role
}

func (p routePolicy) allows(role models.Role) bool {
	for _, r := range p.roles {
		if r == role {
			return true
		}
	}
	return false
}

// protectedRoutes is the static policy table, ordered most specific first so
// /dashboard/coach wins over /dashboard. Never mutated at runtime.
var protectedRoutes = []routePolicy{
	{prefix: "/dashboard/coach", roles: []models.Role{models.RoleCoach}},
	{prefix: "/dashboard/athlete", roles: []models.Role{models.RoleAthlete}},
	{prefix: "/dashboard", roles: []models.Role{models.RoleCoach, models.RoleAthlete}},
}

// authPaths are sign-in/sign-up/SSO-callback flows; the gate never interferes
// with them.
var authPaths = []string{"/sign-in", "/sign-up", "/sso-callback"}

// exemptPaths never reach the gate at all: build assets, favicon, public
// assets and the identity-provider webhook.
var exemptPaths = []string{"/static", "/assets", "/favicon.ico", "/public", "/api/webhook/identity"}

// Exempt reports whether the path bypasses the gate entirely.
func Exempt(path string) bool {
	for _, prefix := range exemptPaths {
		if matchesPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Decide evaluates the access policy. A nil principal means the request
// carries no authenticated session.
func Decide(path string, p *Principal) Decision {
	for _, prefix := range authPaths {
		if matchesPrefix(path, prefix) {
			return allow()
		}
	}

	underDashboard := matchesPrefix(path, "/dashboard")
	underAdmin := matchesPrefix(path, "/admin")

	if p == nil {
		if underDashboard || underAdmin {
			return redirect("/")
		}
		return allow()
	}

	if underAdmin {
		if !p.IsAdmin {
			return redirect("/dashboard")
		}
		return allow()
	}

	if p.IsAdmin {
		// Admins have no athlete/coach dashboard; send them to theirs.
		if path == "/dashboard" ||
			matchesPrefix(path, "/dashboard/coach") ||
			matchesPrefix(path, "/dashboard/athlete") {
			return redirect("/admin")
		}
		return allow()
	}

	for _, policy := range protectedRoutes {
		if !matchesPrefix(path, policy.prefix) {
			continue
		}
		if policy.allows(p.Role) {
			return allow()
		}
		target := DashboardFor(p.Role)
		if target == path {
			// A principal with no role lands on the plain dashboard,
			// which itself drives the role-selection flow.
			return allow()
		}
		return redirect(target)
	}

	return allow()
}

// DashboardFor returns the canonical dashboard path for a stored role.
func DashboardFor(role models.Role) string {
	switch role {
	case models.RoleCoach:
		return "/dashboard/coach"
	case models.RoleAthlete:
		return "/dashboard/athlete"
	default:
		return "/dashboard"
	}
}

// matchesPrefix matches an exact path or a true path-segment prefix, so
// /dashboard matches /dashboard/coach but not /dashboards.
func matchesPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
