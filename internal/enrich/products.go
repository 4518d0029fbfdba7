package enrich

import (
	"context"
	"fmt"

	serpapi "github.com/serpapi/google-search-results-golang"

	"github.com/hearthplan/renovation-assistant/internal/model"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
)

// SerpProducts searches for renovation products via SerpAPI. For US
// queries the Home Depot engine is tried first (home-market inventory with
// real prices), falling back to Google Shopping for everything else.
type SerpProducts struct {
	apiKey string
	logger *logger.Logger
}

// NewSerpProducts creates a product searcher. An empty apiKey yields a
// searcher that reports ErrNotConfigured.
func NewSerpProducts(apiKey string, log *logger.Logger) *SerpProducts {
	return &SerpProducts{apiKey: apiKey, logger: log}
}

// Search returns products ordered as the engine ranked them. A zero-hit
// search returns an empty slice, not an error.
func (s *SerpProducts) Search(ctx context.Context, query, region string) ([]model.ProductResult, error) {
	if s.apiKey == "" {
		return nil, ErrNotConfigured
	}

	if region == "us" {
		products, err := s.searchHomeDepot(query)
		if err == nil && len(products) > 0 {
			return products, nil
		}
	}
	return s.searchShopping(query, region)
}

func (s *SerpProducts) searchHomeDepot(query string) ([]model.ProductResult, error) {
	search := serpapi.NewSearch("home_depot", map[string]string{
		"q": query,
	}, s.apiKey)

	data, err := search.GetJSON()
	if err != nil {
		return nil, fmt.Errorf("home depot search: %w", err)
	}

	var out []model.ProductResult
	if items, ok := data["products"].([]interface{}); ok {
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			out = append(out, model.ProductResult{
				Name:        str(m, "title"),
				Price:       priceString(m["price"]),
				Description: str(m, "brand"),
				SourceURL:   str(m, "link"),
			})
		}
	}
	return out, nil
}

func (s *SerpProducts) searchShopping(query, region string) ([]model.ProductResult, error) {
	params := map[string]string{
		"engine": "google_shopping",
		"q":      query,
	}
	if region != "" {
		params["gl"] = region
	}
	search := serpapi.NewSearch("google_shopping", params, s.apiKey)

	data, err := search.GetJSON()
	if err != nil {
		return nil, fmt.Errorf("shopping search: %w", err)
	}

	var out []model.ProductResult
	if items, ok := data["shopping_results"].([]interface{}); ok {
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			link := str(m, "link")
			if link == "" {
				link = str(m, "product_link")
			}
			out = append(out, model.ProductResult{
				Name:        str(m, "title"),
				Price:       str(m, "price"),
				Description: str(m, "source"),
				SourceURL:   link,
			})
		}
	}
	return out, nil
}

func str(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func priceString(v interface{}) string {
	switch p := v.(type) {
	case string:
		return p
	case float64:
		return fmt.Sprintf("$%.2f", p)
	}
	return ""
}
