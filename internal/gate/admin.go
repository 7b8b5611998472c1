package gate

import "strings"

// AdminChecker answers allow-list membership for a primary email. Admin is a
// derived designation: membership overrides any stored role metadata.
type AdminChecker struct {
	emails map[string]struct{}
}

// NewAdminChecker builds the immutable allow-list set. Loaded once at
// startup; safe for unsynchronized concurrent reads.
func NewAdminChecker(emails []string) *AdminChecker {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		set[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &AdminChecker{emails: set}
}

// IsAdminEmail reports allow-list membership, case-insensitively.
func (a *AdminChecker) IsAdminEmail(email string) bool {
	if a == nil || email == "" {
		return false
	}
	_, ok := a.emails[strings.ToLower(email)]
	return ok
}
