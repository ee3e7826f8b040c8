package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userContextKey = "auth.user"

// RequireUser rejects requests without a valid bearer token.
func RequireUser(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication is not configured"})
			return
		}
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization token"})
			return
		}
		user, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalUser attaches the user when a valid token is present and never rejects.
func OptionalUser(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v != nil {
			if token := BearerToken(c); token != "" {
				if user, err := v.Verify(token); err == nil {
					c.Set(userContextKey, user)
				}
			}
		}
		c.Next()
	}
}

// UserFromContext returns the user set by RequireUser or OptionalUser.
func UserFromContext(c *gin.Context) (User, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return User{}, false
	}
	user, ok := value.(User)
	return user, ok
}

// BearerToken reads the access token from the Authorization header, falling
// back to the access_token query parameter used by websocket clients.
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(c.Query("access_token"))
}
