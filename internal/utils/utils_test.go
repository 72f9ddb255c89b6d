package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"blogpress/internal/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret")
	require.NoError(t, err)

	token, err := m.Issue(7, "alice@example.com")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, TokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenManager_Expired(t *testing.T) {
	m, err := NewTokenManager("secret")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	token, err := m.Issue(7, "alice@example.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_Tampered(t *testing.T) {
	m, _ := NewTokenManager("secret")
	other, _ := NewTokenManager("other-secret")

	token, err := other.Issue(7, "alice@example.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	m, _ := NewTokenManager("secret")

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsNonNumericSubject(t *testing.T) {
	m, _ := NewTokenManager("secret")

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("")
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)

	first, err := h.Hash("correct horse")
	require.NoError(t, err)
	second, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("correct horse", first))
	assert.True(t, h.Verify("correct horse", second))
	assert.False(t, h.Verify("wrong", first))
	assert.False(t, h.Verify("correct horse", "not-a-bcrypt-hash"))
}

func TestPasswordHasher_RejectsEmptyAndLong(t *testing.T) {
	h := NewPasswordHasher(4)

	_, err := h.Hash("")
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":        "hello-world",
		"  Go   Generics 101 ": "go-generics-101",
		"already-a-slug":       "already-a-slug",
		"snake_case title":     "snake_case-title",
		"!!!":                  "",
		"Привет мир":           "",
		"Go на практике":       "go",
		" - trailing - ":       "trailing",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
