package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the JWT claims carried by a media-library session token.
type SessionClaims struct {
	jwt.RegisteredClaims          // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string   `json:"email"`
	Role                 string   `json:"role"`         // e.g. "administrator", "editor", "author", "subscriber"
	Capabilities         []string `json:"capabilities"` // Explicit grants, e.g. ["upload_files"]
	SessionID            string   `json:"session_id"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}

// roleCapabilities lists capabilities implied by a role when the token carries none explicitly
var roleCapabilities = map[string][]string{
	"administrator": {"upload_files", "manage_options"},
	"editor":        {"upload_files"},
	"author":        {"upload_files"},
}

// Can reports whether the session grants capability, either explicitly or through its role.
func (c *SessionClaims) Can(capability string) bool {
	if slices.Contains(c.Capabilities, capability) {
		return true
	}
	return slices.Contains(roleCapabilities[c.Role], capability)
}
