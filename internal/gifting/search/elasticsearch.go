package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "gifting-workers/internal/common/errors"
	"gifting-workers/internal/models"
)

// ProductIndexMapping is the mapping used when the product index is created on startup.
const ProductIndexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "brand":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "category":    {"type": "keyword"},
      "price":       {"type": "scaled_float", "scaling_factor": 100},
      "imageUrl":    {"type": "keyword", "index": false}
    }
  }
}`

// ElasticsearchLookup runs multi_match queries against the product index.
type ElasticsearchLookup struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchLookup(client *elasticsearch.Client, index string) *ElasticsearchLookup {
	return &ElasticsearchLookup{client: client, index: index}
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source models.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// BuildProductQuery renders the request body for a generated category query.
func BuildProductQuery(query string, limit int) map[string]interface{} {
	text, maxPrice := SplitQuery(query)

	boolQuery := map[string]interface{}{
		"must": []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":     text,
					"fields":    []string{"name^3", "brand^2", "category^2", "description"},
					"type":      "best_fields",
					"operator":  "or",
					"fuzziness": "AUTO",
				},
			},
		},
	}
	if maxPrice > 0 {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"range": map[string]interface{}{
					"price": map[string]interface{}{"lte": maxPrice},
				},
			},
		}
	}

	return map[string]interface{}{
		"size":  limit,
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

func (l *ElasticsearchLookup) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(BuildProductQuery(query, limit)); err != nil {
		return nil, fmt.Errorf("encode elasticsearch query: %w", err)
	}

	res, err := l.client.Search(
		l.client.Search.WithContext(ctx),
		l.client.Search.WithIndex(l.index),
		l.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, apperrors.NewProductLookupFailedError(backendElasticsearch, fmt.Errorf("elasticsearch search: %w", err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewProductLookupFailedError(backendElasticsearch, fmt.Errorf("elasticsearch search error: %s", res.Status()))
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode elasticsearch response: %w", err)
	}

	products := make([]models.Product, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		p := hit.Source
		if p.ID == "" {
			p.ID = hit.ID
		}
		products = append(products, p)
	}
	return products, nil
}
