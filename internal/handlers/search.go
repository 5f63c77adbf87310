package handlers

import (
	"net/http"

	"github.com/Skotchmaster/movie_catalog/internal/logging"
	"github.com/Skotchmaster/movie_catalog/internal/search"
	"github.com/Skotchmaster/movie_catalog/internal/util"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
)

type SearchHandler struct {
	ES *elasticsearch.Client
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movie.search")

	if h.ES == nil {
		l.Warn("search_failed", "status", 503, "reason", "search disabled")
		return fail(c, http.StatusServiceUnavailable, "Search is temporarily unavailable")
	}

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_failed", "status", 400, "reason", "empty query")
		return fail(c, http.StatusBadRequest, "Query is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, items, err := search.Search(ctx, h.ES, q, from, limit)
	if err != nil {
		l.Error("search_failed", "status", 500, "reason", "es error", "error", err)
		return fail(c, http.StatusInternalServerError, "Server error")
	}

	l.Info("search_success", "query", q, "total", total)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"total":   total,
		"data":    items,
	})
}
