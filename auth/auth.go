// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Identity is what the identity provider asserts about the session holder.
type Identity struct {
	ExternalID string
	GivenName  string
	FamilyName string
	ImageURL   string
	Email      string
}

// DisplayName joins given and family name, empty when neither is set.
func (i Identity) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(i.GivenName) + " " + strings.TrimSpace(i.FamilyName))
}

// SessionClaims is the JWT payload issued by the identity provider.
type SessionClaims struct {
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Picture    string `json:"picture,omitempty"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateID creates a random UUIDv4 string for database records
func GenerateID() string {
	return uuid.NewString()
}

// Verifier validates HS256 session tokens.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates a session token and returns the identity in it.
func (v *Verifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return Identity{
		ExternalID: claims.Subject,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		ImageURL:   claims.Picture,
		Email:      claims.Email,
	}, nil
}

// IssueToken signs a session token for the identity.
// Used by tests and local tooling; production tokens come from the provider.
func (v *Verifier) IssueToken(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		GivenName:  id.GivenName,
		FamilyName: id.FamilyName,
		Picture:    id.ImageURL,
		Email:      id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ExternalID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
