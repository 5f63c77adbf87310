package auth

import (
	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/labstack/echo/v4"
)

const userContextKey = "user"

func SetUser(c echo.Context, u *models.User) {
	c.Set(userContextKey, u)
}

func UserFromContext(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userContextKey).(*models.User)
	return u, ok
}
