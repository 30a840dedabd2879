package httpserver

import (
	"net/http"
	"strings"

	"printshop/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userID"
	ctxRole   = "userRole"
)

type identityService interface {
	Identity(token string) (int64, string, error)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// requireAuth rejects requests without a valid access token.
func requireAuth(auth identityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "authorization required")
			c.Abort()
			return
		}
		userID, role, err := auth.Identity(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
			c.Abort()
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// optionalAuth attaches the identity when a valid token is present and
// lets the request through either way. Checkout works for guests.
func optionalAuth(auth identityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, role, err := auth.Identity(token); err == nil {
				c.Set(ctxUserID, userID)
				c.Set(ctxRole, role)
			}
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != domain.RoleAdmin {
			respondError(c, http.StatusForbidden, "forbidden", "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func optionalUserID(c *gin.Context) *int64 {
	if id, ok := currentUserID(c); ok {
		return &id
	}
	return nil
}
