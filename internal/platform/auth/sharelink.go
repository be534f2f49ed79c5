// Package auth issues and verifies share links for archived analyses.
// A share link wraps the analysis id in a signed, expiring JWT so a
// result can be handed to a doctor without exposing the archive.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ShareTokens signs and verifies analysis share tokens.
type ShareTokens struct {
	key []byte
	ttl time.Duration
}

func NewShareTokens(signingKey string, ttl time.Duration) *ShareTokens {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ShareTokens{key: []byte(signingKey), ttl: ttl}
}

// Issue creates a share token for the given analysis.
func (s *ShareTokens) Issue(analysisID uuid.UUID) (string, time.Time, error) {
	expires := time.Now().Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   analysisID.String(),
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "healthtrack",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign share token: %w", err)
	}
	return token, expires, nil
}

// Verify checks the token signature and expiry and returns the analysis id.
func (s *ShareTokens) Verify(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse share token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("invalid share token")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid share token subject")
	}
	return id, nil
}
