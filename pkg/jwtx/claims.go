package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a login stays valid. Volunteers log in on a
// phone at the start of a shift, so a working day is a sensible default.
const DefaultSessionTTL = 12 * time.Hour

// Claims are the session claims issued at login.
type Claims struct {
	jwt.RegisteredClaims

	// Email the user logged in with. Used as the acceptor identity.
	Email string `json:"email"`

	// Role is "volunteer" or "coordinator".
	Role string `json:"role"`
}

// NewSessionClaims builds the claims for a freshly logged in user.
func NewSessionClaims(subject, email, role string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email: email,
		Role:  role,
	}
}

// NewJTI returns a random URL-safe value for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer when one is expected.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry rejects tokens past exp or before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateIdentity makes sure the claims name a user.
func (c *Claims) ValidateIdentity() error {
	if c.Subject == "" || c.Email == "" || c.Role == "" {
		return ErrInvalidClaim
	}
	return nil
}
