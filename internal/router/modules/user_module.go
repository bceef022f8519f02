package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qixeo/qixeo-web/internal/container"
	handlers "github.com/qixeo/qixeo-web/internal/interface/http"
	"github.com/qixeo/qixeo-web/internal/interface/middleware"
)

// UserModule wires password recovery, user search and the user pages.
// Public: POST /api/users/forgot-password, POST /api/users/reset-password, GET /users/:id
// Session required: GET /api/users/search, GET /users
type UserModule struct {
	Handler *handlers.UserHandler
	Pages   *handlers.PageHandler
}

func NewUserModule(h *handlers.UserHandler, pages *handlers.PageHandler) *UserModule {
	return &UserModule{Handler: h, Pages: pages}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/users/reset-password", resetLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth())
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users/search", m.Handler.Search)
	}
}

func (m *UserModule) RegisterPages(rg *gin.RouterGroup) {
	rg.GET("/users", middleware.RequirePageSession(), m.Pages.Users)
	rg.GET("/users/:id", m.Pages.UserDetail)
}
