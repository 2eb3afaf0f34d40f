package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/matthewru/hd-mobile/internal/service"
	"github.com/sirupsen/logrus"
)

// JWTAuthMiddleware validates the Bearer token on report routes and injects
// the caller's user id and role into the request context.
func JWTAuthMiddleware(authService service.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "authorization required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid authorization format"})
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.WithError(err).Warn("Invalid or expired token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid or expired token"})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}
