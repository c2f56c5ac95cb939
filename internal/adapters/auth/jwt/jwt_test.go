package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"dogpass-api/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, at time.Time) *Manager {
	t.Helper()
	m, err := New("test-secret", 30*time.Minute)
	require.NoError(t, err)
	m.now = func() time.Time { return at }
	return m
}

func TestIssueAndVerify(t *testing.T) {
	at := time.Now().Truncate(time.Second)
	m := newManager(t, at)

	token, err := m.Issue(context.Background(), auth.Claims{Subject: "vet-1", Name: "Dra. Ana", Role: auth.RoleVet})
	require.NoError(t, err)

	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "vet-1", claims.Subject)
	assert.Equal(t, "Dra. Ana", claims.Name)
	assert.Equal(t, auth.RoleVet, claims.Role)
	assert.Equal(t, at.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestVerifyRejectsExpired(t *testing.T) {
	at := time.Now().Truncate(time.Second)
	m := newManager(t, at)

	token, err := m.Issue(context.Background(), auth.Claims{Subject: "u-1", Role: auth.RoleUser})
	require.NoError(t, err)

	m.now = func() time.Time { return at.Add(31 * time.Minute) }
	_, err = m.Verify(context.Background(), token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	at := time.Now()
	m := newManager(t, at)
	other, err := New("another-secret", time.Minute)
	require.NoError(t, err)

	token, err := other.Issue(context.Background(), auth.Claims{Subject: "u-1", Role: auth.RoleUser})
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	at := time.Now()
	m := newManager(t, at)

	raw := gojwt.NewWithClaims(gojwt.SigningMethodHS256, tokenClaims{
		Role: "admin",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "x",
			ExpiresAt: gojwt.NewNumericDate(at.Add(time.Minute)),
		},
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestIssueValidatesClaims(t *testing.T) {
	m := newManager(t, time.Now())
	_, err := m.Issue(context.Background(), auth.Claims{Role: auth.RoleUser})
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = New(" ", time.Minute)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = m.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}
