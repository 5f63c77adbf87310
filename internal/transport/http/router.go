package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/movie_catalog/internal/handlers"
	"github.com/Skotchmaster/movie_catalog/internal/logging"
	"github.com/Skotchmaster/movie_catalog/internal/middleware/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	DB            *gorm.DB
	Guard         *auth.Guard
	AuthHandler   *handlers.AuthHandler
	MovieHandler  *handlers.MovieHandler
	SearchHandler *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = errorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.POST("/auth/login", d.AuthHandler.Login)
	api.Static("/public", "public")

	movies := api.Group("/movies", d.Guard.RequireAuth)
	movies.GET("", d.MovieHandler.GetMovies)
	movies.POST("", d.MovieHandler.CreateMovie)
	movies.GET("/:id", d.MovieHandler.GetMovie)
	movies.PUT("/:id", d.MovieHandler.UpdateMovie)
	movies.DELETE("/:id", d.MovieHandler.DeleteMovie)

	api.GET("/search", d.SearchHandler.Search, d.Guard.RequireAuth)
}

// errorHandler turns every error that escapes a handler into the
// {success, message} envelope. Internal detail stays in the server log.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	switch code {
	case http.StatusMethodNotAllowed:
		msg = fmt.Sprintf("Method %s not allowed", c.Request().Method)
	case http.StatusInternalServerError:
		logging.FromContext(c.Request().Context()).Error("request_failed",
			"method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
		msg = "Server error"
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"success": false, "message": msg})
}
