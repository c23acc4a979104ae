// internal/pkg/jwt/manager.go
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Config struct {
	Secret   string
	Issuer   string
	TTL      time.Duration
	ResetTTL time.Duration
}

// Manager signs and verifies HMAC tokens with a shared secret.
type Manager struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	resetTTL time.Duration
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: empty signing secret")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	resetTTL := cfg.ResetTTL
	if resetTTL <= 0 {
		resetTTL = 5 * time.Minute
	}
	return &Manager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		ttl:      ttl,
		resetTTL: resetTTL,
	}, nil
}

// GenerateAccessToken issues a standard access token for a user.
func (m *Manager) GenerateAccessToken(userID, userType, email string) (string, error) {
	return m.generate(userID, userType, email, PurposeAccess, m.ttl)
}

// GenerateResetToken issues the short-lived token handed out after a
// reset code is verified. The subject is the purpose, not a user id.
func (m *Manager) GenerateResetToken(email string) (string, error) {
	return m.generate(PurposePasswordReset, "", email, PurposePasswordReset, m.resetTTL)
}

func (m *Manager) generate(subject, userType, email, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserType: userType,
		Email:    email,
		Purpose:  purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify parses and validates a token, returning its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("jwt: unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("jwt: invalid token")
	}
	return claims, nil
}

// VerifyAccessToken verifies a token and requires the access purpose.
func (m *Manager) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeAccess {
		return nil, fmt.Errorf("jwt: token purpose %q is not an access token", claims.Purpose)
	}
	return claims, nil
}

// VerifyResetToken verifies a token and requires the password-reset purpose.
func (m *Manager) VerifyResetToken(tokenString string) (*Claims, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposePasswordReset || claims.Email == "" {
		return nil, fmt.Errorf("jwt: not a valid password-reset token")
	}
	return claims, nil
}
