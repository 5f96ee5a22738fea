package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gamassss/linkdash/internal/logger"
	"github.com/gamassss/linkdash/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

// Auth verifies an HS256 bearer token and stores its subject as the current
// user id.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			response.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			if err == nil {
				err = errors.New("missing subject")
			}
			logger.FromContext(c.Request.Context()).Warn("Rejected bearer token", slog.String("error", err.Error()))
			response.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Request = c.Request.WithContext(logger.WithAttrs(c.Request.Context(), slog.String("user_id", claims.Subject)))
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SetUserID is used by tests and by callers that authenticate by other means.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}
