package middleware

import (
	"net/http"
	"strings"

	"lefri/utils"

	"github.com/gin-gonic/gin"
)

// ContextKeyToken holds the raw bearer token for handlers that revoke it.
const ContextKeyToken = "authToken"

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: message})
}

// JWTAuthUserMiddleware requires a valid, unrevoked app token and stores
// its subject under utils.ContextKeyUserID.
func JWTAuthUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, "Authorization required")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			unauthorized(c, "Authorization required")
			return
		}

		userID, _, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}
		if utils.IsTokenRevoked(c.Request.Context(), tokenString) {
			unauthorized(c, "Token has been revoked")
			return
		}

		c.Set(utils.ContextKeyUserID, userID)
		c.Set(ContextKeyToken, tokenString)
		c.Next()
	}
}
