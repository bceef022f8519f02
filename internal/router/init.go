package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qixeo/qixeo-web/internal/application"
	"github.com/qixeo/qixeo-web/internal/container"
	pginfra "github.com/qixeo/qixeo-web/internal/infrastructure/postgres"
	handlers "github.com/qixeo/qixeo-web/internal/interface/http"
	"github.com/qixeo/qixeo-web/internal/interface/middleware"
	"github.com/qixeo/qixeo-web/internal/interface/web"
	"github.com/qixeo/qixeo-web/internal/router/modules"
	"github.com/qixeo/qixeo-web/pkg/helpers"
)

// Deps are the services behind the HTTP modules.
type Deps struct {
	Users    *application.UserService
	Sessions *application.SessionService
	Reset    *application.PasswordResetService
}

// BuildDeps constructs repositories and services from the container singletons.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	tokenRepo := pginfra.NewVerificationTokenRepository(pool)

	users := application.NewUserService(userRepo, logger, container.GetES(), cfg.ESUsersIndex)
	sessions := application.NewSessionService(container.GetRedis(), container.GetJWT(), cfg.SessionTTL, logger)
	reset := application.NewPasswordResetService(userRepo, tokenRepo, container.GetMailSender(), sessions, cfg, logger)

	return Deps{Users: users, Sessions: sessions, Reset: reset}
}

// Setup installs the HTML renderer, session loading, every module and the
// not-found fallback on engine.
func Setup(engine *gin.Engine, deps Deps) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	engine.HTMLRender = web.MustRenderer()
	engine.StaticFS("/static", http.FS(web.Static()))
	engine.Use(middleware.LoadSession(deps.Sessions))

	site := web.Site{AppName: cfg.CompanyName, LogoURL: cfg.LogoURL}
	contact := handlers.ContactInfo{
		Company:    cfg.CompanyName,
		Address:    cfg.CompanyAddress,
		Email:      cfg.MailSender,
		SupportURL: cfg.SupportURL,
	}
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	pages := handlers.NewPageHandler(deps.Users, site, contact, logger)
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Sessions, cookies, site, logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Reset, logger)

	r := NewRegistry(engine)
	InitModules(r, pages, authHandler, userHandler)
	r.RegisterAll()

	engine.NoRoute(pages.NotFound)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, pages *handlers.PageHandler, authHandler *handlers.AuthHandler, userHandler *handlers.UserHandler) {
	r.Add(modules.NewPageModule(pages))
	r.Add(modules.NewAuthModule(authHandler, pages))
	r.Add(modules.NewUserModule(userHandler, pages))
	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
