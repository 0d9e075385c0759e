package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, secret string, now time.Time) *TokenManager {
	t.Helper()

	m, err := NewTokenManager(secret, DefaultTokenTTL)
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newTestManager(t, "test-secret", time.Now())

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestTokenManager_ExpiresAfterThirtyDays(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, "test-secret", issuedAt)

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(29 * 24 * time.Hour) }
	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	m.now = func() time.Time { return issuedAt.Add(DefaultTokenTTL + time.Minute) }
	subject, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Empty(t, subject)
}

func TestTokenManager_InvalidSignature(t *testing.T) {
	now := time.Now()
	issuer := newTestManager(t, "other-secret", now)
	verifier := newTestManager(t, "test-secret", now)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	_, err = issuer.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestTokenManager_RejectsNonHMAC(t *testing.T) {
	m := newTestManager(t, "test-secret", time.Now())

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestTokenManager_Malformed(t *testing.T) {
	m := newTestManager(t, "test-secret", time.Now())

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestTokenManager_MissingSubject(t *testing.T) {
	m := newTestManager(t, "test-secret", time.Now())

	token, err := m.Issue("")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)

	m, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, m.ttl)
}
