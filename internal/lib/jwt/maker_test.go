package jwt

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_1234567890"

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestMaker(t *testing.T, secret string, opts ...Option) *MakerImpl {
	t.Helper()
	m, err := NewJWTMaker(secret, "HS256", 30*time.Minute, newNoopLogger(), opts...)
	require.NoError(t, err)
	return m
}

func TestMaker_IssueAndVerify(t *testing.T) {
	maker := newTestMaker(t, testSecret)

	tests := []struct {
		name   string
		userID string
		email  string
	}{
		{name: "regular user", userID: "7a0c6f3e-1111-2222-3333-444455556666", email: "user@example.com"},
		{name: "unicode email", userID: "u-2", email: "пользователь@пример.рф"},
		{name: "empty email", userID: "u-3", email: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.Issue(tt.userID, tt.email)
			require.NoError(t, err)
			assert.NotEmpty(t, token.Value)
			assert.Equal(t, int64(30*60), token.ExpiresIn)

			claims, ok := maker.Verify(token.Value)
			require.True(t, ok)

			assert.Equal(t, tt.userID, claims.UserID())
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, TokenTypeAccess, claims.Type)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 2*time.Second)
			assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 2*time.Second)
			assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
		})
	}
}

func TestMaker_IssueWithTTL(t *testing.T) {
	maker := newTestMaker(t, testSecret)

	token, err := maker.IssueWithTTL("u-1", "a@b.com", 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7200), token.ExpiresIn)

	_, err = maker.IssueWithTTL("u-1", "a@b.com", 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	_, err = maker.IssueWithTTL("u-1", "a@b.com", -time.Hour)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	_, err = maker.IssueWithTTL("", "a@b.com", time.Hour)
	assert.Error(t, err)
}

func TestMaker_Verify_InvalidTokens(t *testing.T) {
	maker := newTestMaker(t, testSecret)

	valid, err := maker.Issue("u-1", "a@b.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "garbage", token: "not a token at all"},
		{name: "tampered signature", token: valid.Value + "tampered"},
		{name: "tampered payload", token: tamperPayload(t, valid.Value)},
		{name: "wrong secret key", token: issueWith(t, "wrong_secret_key", "HS256")},
		{name: "wrong algorithm", token: issueWith(t, testSecret, "HS512")},
		{name: "none algorithm", token: noneToken(t)},
		{name: "missing subject", token: signRaw(t, testSecret, jwt.MapClaims{
			"email": "a@b.com", "type": TokenTypeAccess,
			"iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{name: "empty subject", token: signRaw(t, testSecret, jwt.MapClaims{
			"sub": "", "email": "a@b.com", "type": TokenTypeAccess,
			"iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{name: "missing expiry", token: signRaw(t, testSecret, jwt.MapClaims{
			"sub": "u-1", "type": TokenTypeAccess, "iat": time.Now().Unix(),
		})},
		{name: "wrong token type", token: signRaw(t, testSecret, jwt.MapClaims{
			"sub": "u-1", "type": "refresh",
			"iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := maker.Verify(tt.token)
			assert.False(t, ok)
			assert.Nil(t, claims)
		})
	}
}

func TestMaker_Verify_Expired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	maker := newTestMaker(t, testSecret, WithClock(clock))

	token, err := maker.IssueWithTTL("u-1", "a@b.com", time.Minute)
	require.NoError(t, err)

	_, ok := maker.Verify(token.Value)
	require.True(t, ok)

	now = now.Add(time.Minute + time.Second)
	claims, ok := maker.Verify(token.Value)
	assert.False(t, ok)
	assert.Nil(t, claims)
}

func TestMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := newTestMaker(t, "first_secret_key")
	maker2 := newTestMaker(t, "different_secret_key")

	token, err := maker1.Issue("u-1", "a@b.com")
	require.NoError(t, err)

	_, ok := maker2.Verify(token.Value)
	assert.False(t, ok)

	_, ok = maker1.Verify(token.Value)
	assert.True(t, ok)
}

func TestNewJWTMaker_Validation(t *testing.T) {
	log := newNoopLogger()

	_, err := NewJWTMaker("", "HS256", time.Hour, log)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewJWTMaker("secret", "RS256", time.Hour, log)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = NewJWTMaker("secret", "HS256", 500*time.Millisecond, log)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		m, err := NewJWTMaker("secret", alg, time.Hour, log)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, m.TTL())

		token, err := m.Issue("u", "e@x.com")
		require.NoError(t, err)
		_, ok := m.Verify(token.Value)
		assert.True(t, ok, alg)
	}
}

func issueWith(t *testing.T, secret, alg string) string {
	t.Helper()
	m, err := NewJWTMaker(secret, alg, time.Hour, newNoopLogger())
	require.NoError(t, err)
	token, err := m.Issue("u-1", "a@b.com")
	require.NoError(t, err)
	return token.Value
}

func signRaw(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func noneToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "u-1", "type": TokenTypeAccess,
		"iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return s
}

// tamperPayload подменяет sub в полезной нагрузке, сохраняя исходную подпись.
func tamperPayload(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	payload["sub"] = "attacker"
	forged, err := json.Marshal(payload)
	require.NoError(t, err)

	parts[1] = base64.RawURLEncoding.EncodeToString(forged)
	return strings.Join(parts, ".")
}
