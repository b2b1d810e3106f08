package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HS256 secret the server accepts.
const MinSecretLength = 32

// ErrWeakSecret is returned for secrets shorter than MinSecretLength.
var ErrWeakSecret = errors.New("JWT_SECRET must be at least 32 characters")

// ValidateSecret checks the signing secret at startup.
func ValidateSecret(secret string) error {
	if len(secret) < MinSecretLength {
		return ErrWeakSecret
	}
	return nil
}

// IssueToken signs a token identifying userID that expires after ttl.
func IssueToken(secret []byte, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
