package handlers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"onwserver/middlewares"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

// IssueToken signs a spectator token for callers presenting the API
// key. With no JWT_KEY configured auth is disabled and tokens are
// pointless, so the endpoint reports that instead.
func (h *Handler) IssueToken(c *gin.Context) {
	if len(h.jwtKey) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "auth disabled"})
		return
	}

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" || subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Api-Key")), []byte(apiKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return
	}

	token, err := middlewares.GenerateToken(h.jwtKey, "spectator", tokenTTL)
	if err != nil {
		h.logger.Error("Token generation error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": int(tokenTTL.Seconds())})
}
