package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	"github.com/qixeo/qixeo-web/pkg/helpers"
)

const (
	CtxUserIDKey  = "userID"
	CtxSessionKey = "session"
)

// SessionResolver maps a session cookie value to the requester's session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) entity.Session
}

// LoadSession resolves the session cookie once per request and stores the
// result under CtxSessionKey.
func LoadSession(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(helpers.SessionCookie)
		c.Set(CtxSessionKey, sessions.Resolve(c.Request.Context(), token))
		c.Next()
	}
}

// CurrentSession returns the session loaded for this request, or an
// unauthenticated one when LoadSession did not run.
func CurrentSession(c *gin.Context) entity.Session {
	if v, ok := c.Get(CtxSessionKey); ok {
		if s, ok := v.(entity.Session); ok {
			return s
		}
	}
	return entity.Session{Status: entity.SessionUnauthenticated}
}

// RequirePageSession redirects anonymous visitors of a page to /signin.
func RequirePageSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		switch sess.Status {
		case entity.SessionAuthenticated:
			c.Next()
		case entity.SessionLoading:
			c.String(http.StatusServiceUnavailable, "Session store unavailable, please retry.")
			c.Abort()
		default:
			c.Redirect(http.StatusFound, "/signin")
			c.Abort()
		}
	}
}
