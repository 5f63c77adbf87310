package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/stretchr/testify/require"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func createMovieMultipart(t *testing.T, env *testEnv, title, year string) models.Movie {
	rec, c := env.doMultipartRequest(t, http.MethodPost, "/api/movies",
		map[string]string{"title": title, "year": year},
		&fileField{Field: "poster", Filename: "poster.jpg", ContentType: "image/jpeg", Content: jpegBytes},
	)
	require.NoError(t, env.M.CreateMovie(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    models.Movie `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func TestCreateAndGetMovie(t *testing.T) {
	env := newTestEnv(t)

	created := createMovieMultipart(t, env, "Dune", "1984")
	require.NotZero(t, created.ID)
	require.Equal(t, "Dune", created.Title)
	require.Equal(t, 1984, created.Year)
	require.NotEmpty(t, created.Poster)

	// the poster landed on disk
	_, err := os.Stat(created.Poster)
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/api/movies/%d", created.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(created.ID))

	require.NoError(t, env.M.GetMovie(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.Movie `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, created.Title, resp.Data.Title)
	require.Equal(t, created.Year, resp.Data.Year)
	require.Equal(t, created.Poster, resp.Data.Poster)
}

func TestCreateMovieRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doMultipartRequest(t, http.MethodPost, "/api/movies",
		map[string]string{"title": "Dune", "year": "1984"},
		&fileField{Field: "poster", Filename: "poster.txt", ContentType: "text/plain", Content: []byte("not an image")},
	)
	require.NoError(t, env.M.CreateMovie(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Movie{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateMovieValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name   string
		fields map[string]string
		file   *fileField
	}{
		{"missing title", map[string]string{"year": "1984"},
			&fileField{Field: "poster", Filename: "p.jpg", ContentType: "image/jpeg", Content: jpegBytes}},
		{"missing year", map[string]string{"title": "Dune"},
			&fileField{Field: "poster", Filename: "p.jpg", ContentType: "image/jpeg", Content: jpegBytes}},
		{"negative year", map[string]string{"title": "Dune", "year": "-5"},
			&fileField{Field: "poster", Filename: "p.jpg", ContentType: "image/jpeg", Content: jpegBytes}},
		{"missing poster", map[string]string{"title": "Dune", "year": "1984"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, c := env.doMultipartRequest(t, http.MethodPost, "/api/movies", tc.fields, tc.file)
			require.NoError(t, env.M.CreateMovie(c))
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestGetMoviesPagination(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 12; i++ {
		require.NoError(t, env.DB.Create(&models.Movie{
			Title:  fmt.Sprintf("Movie %d", i),
			Year:   2000 + i,
			Poster: "public/uploads/x.jpg",
		}).Error)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/movies?page=2&limit=10", nil)
	require.NoError(t, env.M.GetMovies(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []models.Movie `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Pages int64 `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, int64(12), resp.Pagination.Total)
	require.Equal(t, 2, resp.Pagination.Page)
	require.Equal(t, int64(2), resp.Pagination.Pages)

	// a page past the end is empty but keeps the same page count
	rec2, c2 := env.doJSONRequest(http.MethodGet, "/api/movies?page=5&limit=10", nil)
	require.NoError(t, env.M.GetMovies(c2))
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp))
	require.Empty(t, resp.Data)
	require.Equal(t, int64(2), resp.Pagination.Pages)
}

func TestGetMovieBadID(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/movies/abc", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, env.M.GetMovie(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/api/movies/999999", nil)
	c2.SetParamNames("id")
	c2.SetParamValues("999999")
	require.NoError(t, env.M.GetMovie(c2))
	require.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestUpdateMoviePartial(t *testing.T) {
	env := newTestEnv(t)
	created := createMovieMultipart(t, env, "Dune", "1984")

	// title only, no new poster
	rec, c := env.doMultipartRequest(t, http.MethodPut, fmt.Sprintf("/api/movies/%d", created.ID),
		map[string]string{"title": "Dune Part Two"}, nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(created.ID))

	require.NoError(t, env.M.UpdateMovie(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Movie
	require.NoError(t, env.DB.First(&stored, created.ID).Error)
	require.Equal(t, "Dune Part Two", stored.Title)
	require.Equal(t, 1984, stored.Year)
	require.Equal(t, created.Poster, stored.Poster)
}

func TestUpdateMovieYearBounds(t *testing.T) {
	env := newTestEnv(t)
	created := createMovieMultipart(t, env, "Dune", "1984")

	rec, c := env.doMultipartRequest(t, http.MethodPut, fmt.Sprintf("/api/movies/%d", created.ID),
		map[string]string{"year": "1800"}, nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(created.ID))

	require.NoError(t, env.M.UpdateMovie(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMovie(t *testing.T) {
	env := newTestEnv(t)
	created := createMovieMultipart(t, env, "Dune", "1984")

	rec, c := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/api/movies/%d", created.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(created.ID))

	require.NoError(t, env.M.DeleteMovie(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Empty(t, resp.Data)

	var count int64
	require.NoError(t, env.DB.Model(&models.Movie{}).Count(&count).Error)
	require.Zero(t, count)
}
