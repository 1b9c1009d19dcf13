package middlewares

import (
	"net/http"
	"strings"

	"onwserver/models"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenAuth validates the Bearer JWT on game routes. With an empty key
// the middleware is a no-op, so deployments without JWT_KEY stay open.
// Websocket clients may pass the token as a query parameter instead,
// since browsers cannot set headers on websocket upgrades.
func TokenAuth(key []byte, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(key) == 0 {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims := &models.APIClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Token validation error", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("scope", claims.Scope)
		c.Next()
	}
}
