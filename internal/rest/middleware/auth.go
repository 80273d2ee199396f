package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/billforge/billforge/internal/auth"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stamps the user onto the
// request context
func AuthMiddleware(provider auth.Provider, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(types.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}

		claims, err := provider.ValidateToken(c.Request.Context(), token)
		if err != nil {
			log.Debugw("token validation failed", "error", err)
			abortUnauthorized(c, "invalid or expired access token")
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetUserID(ctx, claims.UserID)
		ctx = context.WithValue(ctx, types.CtxJWT, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ierr.ErrorResponse{
		Success: false,
		Error: ierr.ErrorDetail{
			Display: message,
		},
	})
}
