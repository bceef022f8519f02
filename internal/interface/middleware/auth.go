package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	"github.com/qixeo/qixeo-web/pkg/response"
)

// Auth guards JSON endpoints: it requires an authenticated session, loaded by
// LoadSession, and sets userID, userName and userEmail in the Gin context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		switch {
		case sess.IsAuthenticated():
		case sess.Status == entity.SessionLoading:
			response.Error[any](c, http.StatusServiceUnavailable, "session store unavailable", nil)
			c.Abort()
			return
		default:
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, sess.UserID)
		c.Set("userName", sess.Name)
		c.Set("userEmail", sess.Email)
		c.Next()
	}
}
