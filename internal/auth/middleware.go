package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/streamspace-dev/codesandbox/internal/apperr"
	"github.com/streamspace-dev/codesandbox/internal/db"
)

const (
	contextKeyUserID   = "user_id"
	contextKeyUsername = "username"
)

// Middleware resolves the bearer in the Authorization header to an active
// user, aborting with unauthorized on any failure: missing/malformed
// header, invalid/expired token, or a missing/inactive user (spec §4.A
// Identify).
func Middleware(manager *Manager, users *db.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apperr.Abort(c, apperr.Unauthorized("missing bearer token"))
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims, err := manager.ValidateToken(tokenString)
		if err != nil {
			apperr.Abort(c, apperr.Unauthorized("invalid or expired token"))
			return
		}

		user, err := users.GetByUsername(c.Request.Context(), claims.Username)
		if err != nil || user == nil || !user.Active {
			apperr.Abort(c, apperr.Unauthorized("user not found or inactive"))
			return
		}

		c.Set(contextKeyUserID, user.ID)
		c.Set(contextKeyUsername, user.Username)
		c.Next()
	}
}

// UserID returns the authenticated caller's id. Only valid downstream of
// Middleware.
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(contextKeyUserID)
	id, _ := v.(int64)
	return id
}

// Username returns the authenticated caller's username.
func Username(c *gin.Context) string {
	v, _ := c.Get(contextKeyUsername)
	name, _ := v.(string)
	return name
}
