package middleware

import (
	"net/http"
	"strings"

	"finleybook/config"
	"finleybook/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and stores the caller's identity in
// the gin context for downstream handlers.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("tier", claims.Tier)
		c.Next()
	}
}

// OptionalAuth populates identity when a valid token is present but never
// rejects. The tracking redirect uses it so app links work while signed in
// and degrade to the uid query param otherwise.
func OptionalAuth(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			if claims, err := auth.ParseAccessToken(cfg, strings.TrimPrefix(header, "Bearer ")); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("email", claims.Email)
				c.Set("role", claims.Role)
				c.Set("tier", claims.Tier)
			}
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or 0 when unauthenticated.
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func GetTier(c *gin.Context) string {
	if v, ok := c.Get("tier"); ok {
		if t, ok := v.(string); ok {
			return t
		}
	}
	return ""
}
