package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/identity"
)

const (
	ContextRequesterID = "requesterID"
	ContextRole        = "role"
)

type RequesterResolver interface {
	ResolveRequester(token string) (identity.Identity, error)
}

func AuthMiddleware(resolver RequesterResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, "invalid authorization header")
			return
		}

		id, err := resolver.ResolveRequester(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, "invalid token")
			return
		}

		c.Set(ContextRequesterID, id.RequesterID)
		c.Set(ContextRole, id.Role)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			httperr.Abort(c, http.StatusForbidden, httperr.CodeForbidden, "insufficient role")
			return
		}
		c.Next()
	}
}

// RequesterID returns the caller set by AuthMiddleware.
func RequesterID(c *gin.Context) string {
	return c.GetString(ContextRequesterID)
}
