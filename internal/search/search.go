package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

const Index = "movies"

// IndexMovie upserts a movie document. Callers treat failures as best-effort
// and only log them, the database stays the source of truth.
func IndexMovie(ctx context.Context, es *elasticsearch.Client, movie *models.Movie) error {
	body, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("es: json.Marshal failed: %w", err)
	}

	res, err := es.Index(
		Index,
		bytes.NewReader(body),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(movie.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es: index failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("es: index failed: %s", res.Status())
	}
	return nil
}

func DeleteMovie(ctx context.Context, es *elasticsearch.Client, id uint) error {
	res, err := es.Delete(
		Index,
		strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es: delete failed: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy title match over the movies index.
func Search(ctx context.Context, es *elasticsearch.Client, q string, from, size int) (int64, []models.Movie, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []models.Movie{}, nil
	}

	query := map[string]any{
		"from": from,
		"size": size,
		"query": map[string]any{
			"match": map[string]any{
				"title": map[string]any{
					"query":     q,
					"fuzziness": "AUTO",
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return 0, nil, fmt.Errorf("es: encode query failed: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(Index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("es: search failed: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Movie `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, nil, fmt.Errorf("es: decode response failed: %w", err)
	}

	items := make([]models.Movie, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		items = append(items, h.Source)
	}

	return parsed.Hits.Total.Value, items, nil
}
