package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
	"github.com/mathacharan30/nutricompare-atme/utils"
)

const SessionIDKey = "sessionID"

// SessionAuth requires a bearer chat-session token and stores its session id
// in the context.
func SessionAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortWith(c, apperrors.ErrUnauthorized.WithMessage("Authorization header required"))
			return
		}

		sessionID, err := utils.ParseSessionToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abortWith(c, apperrors.ErrUnauthorized.WithMessage("invalid session token"))
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// abortWith stops the chain with the same error body the controllers write.
func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"error":   err.Code,
		"message": err.Message,
	})
}
