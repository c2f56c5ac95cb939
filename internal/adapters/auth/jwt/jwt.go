package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dogpass-api/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty     = errors.New("token is empty")
	ErrNotConfigured  = errors.New("jwt secret not configured")
	ErrInvalidClaims  = errors.New("token claims are invalid")
	ErrUnexpectedAlgo = errors.New("unexpected signing method")
)

type tokenClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	gojwt.RegisteredClaims
}

// Manager firma y verifica tokens HS256.
// Implementa auth.TokenIssuer y auth.AuthVerifier.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNotConfigured
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *Manager) Issue(_ context.Context, c auth.Claims) (string, error) {
	if strings.TrimSpace(c.Subject) == "" || !c.Role.Valid() {
		return "", ErrInvalidClaims
	}

	now := m.now()
	claims := tokenClaims{
		Name: c.Name,
		Role: string(c.Role),
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   c.Subject,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var claims tokenClaims
	_, err := gojwt.ParseWithClaims(token, &claims, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedAlgo
		}
		return m.secret, nil
	}, gojwt.WithTimeFunc(m.now), gojwt.WithExpirationRequired())
	if err != nil {
		return auth.Claims{}, fmt.Errorf("jwt verify failed: %w", err)
	}

	out := auth.Claims{
		Subject: strings.TrimSpace(claims.Subject),
		Name:    claims.Name,
		Role:    auth.Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if out.Subject == "" || !out.Role.Valid() {
		return auth.Claims{}, ErrInvalidClaims
	}
	return out, nil
}
