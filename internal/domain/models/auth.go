package models

import "github.com/golang-jwt/jwt/v5"

// APIClaims is the JWT claims structure issued by the identity provider.
// Only the registered claims matter; the subject is the owner id every
// operation is scoped by.
type APIClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// GetUserID returns the caller id from the subject claim
func (c *APIClaims) GetUserID() string {
	return c.Subject
}
