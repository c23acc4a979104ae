// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. Password-reset tokens are short-lived and only accepted
// by the reset-password endpoint.
const (
	PurposeAccess        = "access"
	PurposePasswordReset = "password_reset"
)

// Claims carried by every token issued by this service.
type Claims struct {
	UserType string `json:"user_type,omitempty"`
	Email    string `json:"email,omitempty"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

// UserID is the token subject (empty for password-reset tokens, which are
// bound to an email rather than an account id).
func (c *Claims) UserID() string {
	return c.Subject
}

func (c *Claims) IsAdmin() bool {
	return c.UserType == "admin"
}
