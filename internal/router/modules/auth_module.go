package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qixeo/qixeo-web/internal/container"
	handlers "github.com/qixeo/qixeo-web/internal/interface/http"
	"github.com/qixeo/qixeo-web/internal/interface/middleware"
)

// AuthModule serves sign-in and sign-out.
// API: POST /api/auth/signin, GET /api/auth/signout
// Pages: GET /signin, GET /forgot-password, GET /reset-password
type AuthModule struct {
	Handler *handlers.AuthHandler
	Pages   *handlers.PageHandler
}

func NewAuthModule(h *handlers.AuthHandler, pages *handlers.PageHandler) *AuthModule {
	return &AuthModule{Handler: h, Pages: pages}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signInLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signin", signInLimiter, m.Handler.SignIn)
	rg.GET("/auth/signout", m.Handler.SignOut)
}

func (m *AuthModule) RegisterPages(rg *gin.RouterGroup) {
	rg.GET("/signin", m.Pages.SignIn)
	rg.GET("/forgot-password", m.Pages.ForgotPassword)
	rg.GET("/reset-password", m.Pages.ResetPassword)
}
