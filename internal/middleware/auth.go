package middleware

import (
	"context"
	"net/http"
	"strings"

	"relic-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier is the verification function the auth middleware depends
// on; satisfied by auth.JWTVerifier.VerifyToken.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// Auth returns a gin middleware that requires a valid bearer token and puts
// the verified user id into the request context.
func Auth(verify TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Warn("Malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid Authorization header format"})
			return
		}

		claims, err := verify(c.Request.Context(), parts[1])
		if err != nil {
			log.Warn("Token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), models.UserContextKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
