package utils

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestSessionTokenRoundtrip(t *testing.T) {
	token, err := GenerateSessionToken(7, "owner@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.AdminID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, "owner", claims.Role)
	assert.WithinDuration(t, time.Now().Add(SessionDuration), claims.ExpiresAt.Time, time.Minute)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ParseSessionToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestParseSessionTokenRejectsTampering(t *testing.T) {
	token, err := GenerateSessionToken(1, "owner@example.com")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ParseSessionToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	claims := AdminClaims{
		AdminID: 1,
		Email:   "owner@example.com",
		Role:    "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = ParseSessionToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	claims := AdminClaims{
		AdminID: 1,
		Email:   "owner@example.com",
		Role:    "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseSessionToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionTokenRejectsUnsignedAlg(t *testing.T) {
	claims := AdminClaims{AdminID: 1, Email: "owner@example.com", Role: "owner"}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseSessionToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokensRequireConfiguredSecret(t *testing.T) {
	_, err := signSessionToken("", 1, "owner@example.com")
	assert.ErrorIs(t, err, ErrMissingSecret)

	// A token signed with the empty HMAC key must never verify; otherwise an
	// unset secret would let anyone mint admin sessions.
	claims := AdminClaims{
		AdminID: 999,
		Email:   "attacker@example.com",
		Role:    "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	require.NoError(t, err)

	_, err = parseSessionToken("", forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseSessionToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "s3cret-pass"))
}
