package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Skotchmaster/movie_catalog/internal/logging"
	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/Skotchmaster/movie_catalog/internal/service"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Guard struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func NewGuard(db *gorm.DB, secret []byte) *Guard {
	return &Guard{DB: db, JWTSecret: secret}
}

// RequireAuth gates a route behind a bearer credential. A valid signature and
// expiry are not enough: the presented token must also equal the token stored
// on the user row, so a later login anywhere else invalidates this one.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth.require_auth")

		header := c.Request().Header.Get("Authorization")
		if header == "" {
			l.Warn("auth_failed", "status", 401, "reason", "no authorization header")
			return echo.NewHTTPError(http.StatusUnauthorized,
				"Authentication failed: Invalid credentials or access denied.")
		}

		parts := strings.Split(header, " ")
		if len(parts) < 2 || parts[1] == "" {
			l.Warn("auth_failed", "status", 401, "reason", "no token in header")
			return echo.NewHTTPError(http.StatusUnauthorized,
				"Malformed authorization header. Token not found.")
		}
		rawToken := parts[1]

		userID, err := service.Verify(rawToken, g.JWTSecret)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "token verification failed", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized,
				"Invalid token. Please provide a valid token.")
		}

		var user models.User
		if err := g.DB.Where("id = ? AND token = ?", userID, rawToken).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.Warn("auth_failed", "status", 401, "reason", "token does not match stored one")
				return echo.NewHTTPError(http.StatusUnauthorized,
					"Unauthorized: Invalid token or user not found.")
			}
			l.Error("auth_failed", "status", 500, "reason", "db error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError,
				"Server error. Please try again later.")
		}

		SetUser(c, &user)
		return next(c)
	}
}
