// Package authtoken issues and verifies the HS256 bearer tokens that carry a
// caller's user id in the "sub" claim.
package authtoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret       = errors.New("token secret not configured")
	ErrMissingSubject = errors.New("token has no subject")
)

type Claims struct {
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a signer for secret. A zero ttl issues tokens without expiry.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) Issue(subject string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", ErrMissingSubject
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Subject verifies tokenString and returns its subject.
func (s *Signer) Subject(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid or expired token")
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", ErrMissingSubject
	}
	return sub, nil
}
