package models

import "github.com/golang-jwt/jwt/v5"

// SessionMetadata mirrors the free-form metadata the identity provider
// embeds in session claims. Only the role key is read.
type SessionMetadata struct {
	Role string `json:"role,omitempty"`
}

// SessionClaims is the verified payload of an identity-provider session
// token. Subject carries the opaque principal ID.
type SessionClaims struct {
	Metadata SessionMetadata `json:"metadata"`
	jwt.RegisteredClaims
}

// StoredRole parses the role metadata into the closed enum.
func (c *SessionClaims) StoredRole() Role {
	if c == nil {
		return RoleUnset
	}
	return ParseRole(c.Metadata.Role)
}

// PrincipalID returns the opaque identity-provider user ID.
func (c *SessionClaims) PrincipalID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
