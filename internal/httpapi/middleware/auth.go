package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mangashelf/internal/identity"
	"mangashelf/internal/session"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// Beyond token validity it checks that the token belongs to the active
// session: this is a single-session server, and a stale token from a
// previously signed-in user must not reach another user's library binding.
func AuthMiddleware(provider *identity.Provider, sess *session.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenIdentity, err := provider.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		current := sess.Current()
		if current == nil || current.ID != tokenIdentity.ID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session for this token"})
			c.Abort()
			return
		}

		c.Set("userID", tokenIdentity.ID)
		c.Set("email", tokenIdentity.Email)

		c.Next()
	}
}
