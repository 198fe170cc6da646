package models

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims the backend relies on.
type Claims struct {
	jwt.RegisteredClaims          // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string   `json:"email,omitempty"`
	Role                 string   `json:"role,omitempty"`
	Roles                []string `json:"roles,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
// It is stamped as created_by on new drafts.
func (c *Claims) GetUserID() string {
	return c.Subject
}

// HasRole reports whether the token grants role, either as the single role
// claim or inside the roles list.
func (c *Claims) HasRole(role string) bool {
	if c.Role == role {
		return true
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
