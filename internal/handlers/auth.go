package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Skotchmaster/movie_catalog/internal/events"
	"github.com/Skotchmaster/movie_catalog/internal/hash"
	"github.com/Skotchmaster/movie_catalog/internal/logging"
	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/Skotchmaster/movie_catalog/internal/service"
	"github.com/Skotchmaster/movie_catalog/internal/validation"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *service.TokenService
	Producer *events.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if res := validation.Login(req.Email, req.Password); !res.OK {
		l.Warn("login_failed", "status", 400, "reason", "validation", "message", res.Message())
		return fail(c, http.StatusBadRequest, res.Message())
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return fail(c, http.StatusUnauthorized, "User Not Found")
		}
		l.Error("login_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("login_success", "userID", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   token,
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
