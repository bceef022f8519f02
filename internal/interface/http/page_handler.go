package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/qixeo/qixeo-web/internal/application"
	"github.com/qixeo/qixeo-web/internal/interface/web"
	"github.com/qixeo/qixeo-web/pkg/helpers"
	"github.com/qixeo/qixeo-web/pkg/response"
)

// ContactInfo is shown on /contact.
type ContactInfo struct {
	Company    string
	Address    string
	Email      string
	SupportURL string
}

type PageHandler struct {
	UserService *application.UserService
	Site        web.Site
	Contact     ContactInfo
	Logger      *logrus.Logger
}

func NewPageHandler(users *application.UserService, site web.Site, contact ContactInfo, logger *logrus.Logger) *PageHandler {
	return &PageHandler{UserService: users, Site: site, Contact: contact, Logger: logger}
}

func (h *PageHandler) render(c *gin.Context, status int, name, title string, data any) {
	c.HTML(status, name, h.Site.NewPage(c, title, data))
}

// Home GET /
func (h *PageHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageHome, "Dashboard", nil)
}

// ContactPage GET /contact
func (h *PageHandler) ContactPage(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageContact, "Contact", h.Contact)
}

// SignIn GET /signin
func (h *PageHandler) SignIn(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageSignIn, "Log In", signInView{})
}

// ForgotPassword GET /forgot-password
func (h *PageHandler) ForgotPassword(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageForgotPassword, "Forgot password", nil)
}

type resetPasswordView struct {
	Token string
}

// ResetPassword GET /reset-password?token=
func (h *PageHandler) ResetPassword(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageResetPassword, "Reset password", resetPasswordView{Token: c.Query("token")})
}

// Users GET /users?q=&page= (session required)
func (h *PageHandler) Users(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	dir, err := h.UserService.Directory(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		helpers.LogError(h.Logger, "list users failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		c.String(http.StatusInternalServerError, "Something went wrong.")
		return
	}
	h.render(c, http.StatusOK, web.PageUsers, "Users", dir)
}

// UserDetail GET /users/:id
func (h *PageHandler) UserDetail(c *gin.Context) {
	u, err := h.UserService.GetUser(c.Request.Context(), c.Param("id"))
	if errors.Is(err, application.ErrUserNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		helpers.LogError(h.Logger, "get user failed", err, logrus.Fields{"id": c.Param("id")})
		c.String(http.StatusInternalServerError, "Something went wrong.")
		return
	}
	title := u.Name
	if title == "" {
		title = "User"
	}
	h.render(c, http.StatusOK, web.PageUserDetail, title, u)
}

// NotFound renders the 404 page inside the shell; API paths get a JSON body.
func (h *PageHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		response.Error[any](c, http.StatusNotFound, "not found", nil)
		return
	}
	h.render(c, http.StatusNotFound, web.PageNotFound, "Not found", nil)
}

// Health GET /health
func (h *PageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
