// Package auth issues and validates session tokens. A token carries only the
// user id; the encryption key is derived from the password at login and
// never leaves the session holder.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered JWT claims with the user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken mints an HS256 session token for userID.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})
	return token.SignedString(secretKey)
}

// GetUserIDFromToken validates a session token and returns the user id it
// was minted for. Expired tokens yield common.ErrTokenExpired.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}
