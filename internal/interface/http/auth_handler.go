package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/qixeo/qixeo-web/internal/application"
	"github.com/qixeo/qixeo-web/internal/interface/web"
	"github.com/qixeo/qixeo-web/pkg/helpers"
	"github.com/qixeo/qixeo-web/pkg/response"
	"github.com/qixeo/qixeo-web/pkg/validation"
)

type AuthHandler struct {
	Users    *application.UserService
	Sessions *application.SessionService
	Cookies  *helpers.Manager
	Site     web.Site
	Logger   *logrus.Logger
}

func NewAuthHandler(users *application.UserService, sessions *application.SessionService, cookies *helpers.Manager, site web.Site, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions, Cookies: cookies, Site: site, Logger: logger}
}

type signInRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type signInView struct {
	Email string
	Error string
}

// SignIn POST /api/auth/signin accepts a form post from /signin or a JSON body.
func (h *AuthHandler) SignIn(c *gin.Context) {
	isJSON := c.ContentType() == binding.MIMEJSON

	var req signInRequest
	if err := c.ShouldBind(&req); err != nil {
		if isJSON {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		h.renderSignIn(c, http.StatusBadRequest, req.Email, "Enter a valid email and password.")
		return
	}

	u, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if isJSON {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.renderSignIn(c, http.StatusUnauthorized, req.Email, "Invalid email or password.")
		return
	}

	token, exp, err := h.Sessions.Start(c.Request.Context(), u)
	if err != nil {
		helpers.LogError(h.Logger, "start session failed", err, logrus.Fields{"user_id": u.ID})
		status := http.StatusInternalServerError
		if errors.Is(err, application.ErrSessionStore) {
			status = http.StatusServiceUnavailable
		}
		if isJSON {
			response.Error[any](c, status, "could not start session", nil)
			return
		}
		h.renderSignIn(c, status, req.Email, "Sign in is temporarily unavailable.")
		return
	}
	h.Cookies.SetSession(c, token, exp)

	if !isJSON {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_id": u.ID, "email": u.Email, "name": u.Name}, "signed in", gin.H{"expires_at": exp})
}

// SignOut GET /api/auth/signout ends the session and returns to the home page.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if token, _ := c.Cookie(helpers.SessionCookie); token != "" {
		if err := h.Sessions.End(c.Request.Context(), token); err != nil {
			helpers.LogError(h.Logger, "end session failed", err, nil)
		}
	}
	h.Cookies.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) renderSignIn(c *gin.Context, status int, email, msg string) {
	c.HTML(status, web.PageSignIn, h.Site.NewPage(c, "Log In", signInView{Email: email, Error: msg}))
}
