// Package search finds products by free-text query. Elasticsearch is the
// primary backend; when it is not configured or a query fails, the search
// degrades to a SQL LIKE scan so the chat flow keeps working.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/repo"
)

type Service struct {
	ES    *elasticsearch.Client // nil when ES is not configured
	Index string
	Repo  *repo.GormRepo
}

// NewESClient connects to Elasticsearch and verifies the cluster responds.
func NewESClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("es: new client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("es: info: %s", res.Status())
	}

	return client, nil
}

// Search returns up to limit matching products.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("component", "search")

	if s.ES != nil {
		products, err := s.searchES(ctx, query, limit)
		if err == nil {
			return products, nil
		}
		l.Error("es_search_failed", "query", query, "error", err)
	}

	return s.Repo.SearchProductsLike(ctx, query, limit)
}

func (s *Service) searchES(ctx context.Context, query string, limit int) ([]models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name_uz^2", "name_ru^2", "description_uz", "description_ru"},
				"fuzziness": "AUTO",
			},
		},
		"size": limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("es: search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("es: decode response: %w", err)
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return products, nil
}
