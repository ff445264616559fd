package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Yardanz/tutor-site/config"
)

// SessionDuration is how long an admin session cookie stays valid.
const SessionDuration = 7 * 24 * time.Hour

// ErrInvalidToken is the single failure returned for any verification problem.
// Callers must not learn whether a token was malformed, forged or expired.
var ErrInvalidToken = errors.New("invalid session token")

// ErrMissingSecret is returned when no signing secret is configured. An empty
// HMAC key would otherwise sign and verify, making every session forgeable.
var ErrMissingSecret = errors.New("session signing secret is not configured")

// AdminClaims is the stateless session credential carried by the admin cookie.
type AdminClaims struct {
	AdminID uint   `json:"adminId"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken issues a signed 7-day token for the admin identity.
func GenerateSessionToken(adminID uint, email string) (string, error) {
	return signSessionToken(config.Get().JWTSecret, adminID, email)
}

func signSessionToken(secret string, adminID uint, email string) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	claims := AdminClaims{
		AdminID: adminID,
		Email:   email,
		Role:    "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a session token and returns its claims.
func ParseSessionToken(tokenStr string) (*AdminClaims, error) {
	return parseSessionToken(config.Get().JWTSecret, tokenStr)
}

func parseSessionToken(secret, tokenStr string) (*AdminClaims, error) {
	if secret == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
