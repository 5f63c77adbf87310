package handlers

import (
	"github.com/labstack/echo/v4"
)

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{
		"success": false,
		"message": message,
	})
}
