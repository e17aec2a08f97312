package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/pkg/auth"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextName   = "name"
	ContextToken  = "token"
	ContextClaims = "claims"
)

// AuthMiddleware validates JWT tokens and injects user claims into context
func AuthMiddleware(jwtManager *auth.JWTManager, blacklist *auth.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortUnauthorized(c, "Invalid authorization format. Use: Bearer <token>")
			return
		}
		tokenString := parts[1]

		revoked, err := blacklist.IsRevoked(c.Request.Context(), tokenString)
		if err != nil {
			// fail closed: a revoked token must never pass while Redis is down
			c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{
				Error: "Auth server error",
				Code:  model.ErrCodeInternal,
			})
			return
		}
		if revoked {
			abortUnauthorized(c, "Token has been revoked")
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextName, claims.Name)
		c.Set(ContextToken, tokenString)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
		Error: msg,
		Code:  model.ErrCodeUnauthorized,
	})
}
