package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/qixeo/qixeo-web/internal/application"
	"github.com/qixeo/qixeo-web/internal/interface/middleware"
	"github.com/qixeo/qixeo-web/pkg/helpers"
	"github.com/qixeo/qixeo-web/pkg/response"
	"github.com/qixeo/qixeo-web/pkg/validation"
)

type UserHandler struct {
	Users  *application.UserService
	Reset  *application.PasswordResetService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, reset *application.PasswordResetService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Reset: reset, Logger: logger}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

// ForgotPassword POST /api/users/forgot-password {email}
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Plain(c, http.StatusBadRequest, "invalid payload")
		return
	}

	meta := application.RequestMeta{IP: middleware.ClientIP(c), UserAgent: c.GetHeader("User-Agent")}
	err := h.Reset.RequestReset(c.Request.Context(), req.Email, meta)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{})
	case errors.Is(err, application.ErrUserNotFound):
		response.Plain(c, http.StatusNotFound, "User not found")
	case errors.Is(err, application.ErrTokenCreate):
		helpers.LogError(h.Logger, "create recovery token failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Plain(c, http.StatusInternalServerError, "failed to create token")
	case errors.Is(err, application.ErrEmailDelivery):
		helpers.LogError(h.Logger, "send recovery email failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Plain(c, http.StatusInternalServerError, "failed to send email")
	default:
		helpers.LogError(h.Logger, "forgot password failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Plain(c, http.StatusInternalServerError, "internal server error")
	}
}

// ResetPassword POST /api/users/reset-password {token, password}
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": validation.ToDetails(err)})
		return
	}

	err := h.Reset.ConfirmReset(c.Request.Context(), req.Token, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{})
	case errors.Is(err, application.ErrTokenInvalid):
		response.Plain(c, http.StatusBadRequest, application.ErrTokenInvalid.Error())
	default:
		helpers.LogError(h.Logger, "reset password failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Plain(c, http.StatusInternalServerError, "internal server error")
	}
}

type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Search GET /api/users/search?q=&size= (auth required)
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	users, err := h.Users.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		helpers.LogError(h.Logger, "user search failed", err, logrus.Fields{"q": q})
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image})
	}
	response.Success(c, http.StatusOK, out, "users", gin.H{"count": len(out)})
}
