package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Skotchmaster/movie_catalog/internal/events"
	"github.com/Skotchmaster/movie_catalog/internal/logging"
	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/Skotchmaster/movie_catalog/internal/search"
	"github.com/Skotchmaster/movie_catalog/internal/upload"
	"github.com/Skotchmaster/movie_catalog/internal/util"
	"github.com/Skotchmaster/movie_catalog/internal/validation"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type MovieHandler struct {
	DB       *gorm.DB
	Store    *upload.Store
	ES       *elasticsearch.Client
	Producer *events.Producer
}

func (h *MovieHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "movie_events", fmt.Sprint(event["movieID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

func (h *MovieHandler) index(c echo.Context, movie *models.Movie) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexMovie(ctx, h.ES, movie); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_index_error", "error", err)
	}
}

func (h *MovieHandler) GetMovies(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movie.get_movies")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Movie{}).Count(&total).Error; err != nil {
		l.Error("get_movies_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	items := make([]models.Movie, 0, limit)
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		l.Error("get_movies_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	l.Info("get_movies_success", "page", page, "total", total)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
		"pagination": echo.Map{
			"total": total,
			"page":  page,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (h *MovieHandler) CreateMovie(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movie.create_movie")

	title := c.FormValue("title")
	year := c.FormValue("year")
	poster, err := c.FormFile("poster")
	if err != nil {
		poster = nil
	}

	if res := validation.MovieCreate(title, year, poster); !res.OK {
		l.Warn("create_movie_failed", "status", 422, "reason", "validation", "message", res.Message())
		return fail(c, http.StatusUnprocessableEntity, res.Message())
	}

	path, err := h.Store.SavePoster(poster)
	if err != nil {
		if errors.Is(err, upload.ErrNotAnImage) {
			l.Warn("create_movie_failed", "status", 400, "reason", "bad mimetype")
			return fail(c, http.StatusBadRequest, err.Error())
		}
		l.Error("create_movie_failed", "status", 500, "reason", "cannot save poster", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	yearNum, _ := strconv.Atoi(year)
	movie := models.Movie{
		Title:  title,
		Year:   yearNum,
		Poster: path,
	}

	if err := h.DB.Create(&movie).Error; err != nil {
		l.Error("create_movie_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	h.index(c, &movie)
	h.publish(c, map[string]any{
		"type":    "movie_created",
		"movieID": movie.ID,
		"title":   movie.Title,
	})

	l.Info("create_movie_success", "movieID", movie.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    movie,
	})
}

func (h *MovieHandler) GetMovie(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movie.get_movie")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_movie_failed", "status", 400, "reason", "id is not a number")
		return fail(c, http.StatusBadRequest, "Invalid movie ID")
	}

	var movie models.Movie
	if err := h.DB.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_movie_failed", "status", 404, "reason", "no such movie", "movieID", id)
			return fail(c, http.StatusNotFound, "Movie not found")
		}
		l.Error("get_movie_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    movie,
	})
}

func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movie.update_movie")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("update_movie_failed", "status", 400, "reason", "id is not a number")
		return fail(c, http.StatusBadRequest, "Invalid movie ID")
	}

	var movie models.Movie
	if err := h.DB.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("update_movie_failed", "status", 404, "reason", "no such movie", "movieID", id)
			return fail(c, http.StatusNotFound, "Movie not found")
		}
		l.Error("update_movie_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	title := c.FormValue("title")
	year := c.FormValue("year")
	poster, err := c.FormFile("poster")
	if err != nil {
		poster = nil
	}

	if res := validation.MovieUpdate(title, year, poster); !res.OK {
		l.Warn("update_movie_failed", "status", 400, "reason", "validation", "message", res.Message())
		return fail(c, http.StatusBadRequest, res.Message())
	}

	if title != "" {
		movie.Title = title
	}
	if year != "" {
		movie.Year, _ = strconv.Atoi(year)
	}
	if poster != nil {
		path, err := h.Store.SavePoster(poster)
		if err != nil {
			if errors.Is(err, upload.ErrNotAnImage) {
				l.Warn("update_movie_failed", "status", 400, "reason", "bad mimetype")
				return fail(c, http.StatusBadRequest, err.Error())
			}
			l.Error("update_movie_failed", "status", 500, "reason", "cannot save poster", "error", err)
			return fail(c, http.StatusInternalServerError, "Server error")
		}
		movie.Poster = path
	}

	if err := h.DB.Save(&movie).Error; err != nil {
		l.Error("update_movie_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	h.index(c, &movie)
	h.publish(c, map[string]any{
		"type":    "movie_updated",
		"movieID": movie.ID,
		"title":   movie.Title,
	})

	l.Info("update_movie_success", "movieID", movie.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    movie,
	})
}

func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movie.delete_movie")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("delete_movie_failed", "status", 400, "reason", "id is not a number")
		return fail(c, http.StatusBadRequest, "Invalid movie ID")
	}

	var movie models.Movie
	if err := h.DB.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_movie_failed", "status", 404, "reason", "no such movie", "movieID", id)
			return fail(c, http.StatusNotFound, "Movie not found")
		}
		l.Error("delete_movie_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	if err := h.DB.Delete(&movie).Error; err != nil {
		l.Error("delete_movie_failed", "status", 500, "reason", "db error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	if h.ES != nil {
		esCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := search.DeleteMovie(esCtx, h.ES, movie.ID); err != nil {
			l.Error("es_delete_error", "error", err)
		}
	}
	h.publish(c, map[string]any{
		"type":    "movie_deleted",
		"movieID": movie.ID,
	})

	l.Info("delete_movie_success", "movieID", movie.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{},
	})
}
