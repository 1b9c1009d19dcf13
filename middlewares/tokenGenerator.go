package middlewares

import (
	"time"

	"onwserver/models"

	jwt "github.com/dgrijalva/jwt-go"
)

// GenerateToken signs a short-lived spectator/API token.
func GenerateToken(key []byte, scope string, ttl time.Duration) (string, error) {
	claims := &models.APIClaims{
		Scope: scope,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}
