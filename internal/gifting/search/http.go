package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "gifting-workers/internal/common/errors"
	commonhttp "gifting-workers/internal/common/http"
	"gifting-workers/internal/models"
)

// HTTPLookup queries a third-party catalog API exposing GET /products/search.
type HTTPLookup struct {
	client  *commonhttp.Client
	baseURL string
}

func NewHTTPLookup(client *commonhttp.Client, baseURL string) *HTTPLookup {
	return &HTTPLookup{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type catalogResponse struct {
	Products []models.Product `json:"products"`
}

func (l *HTTPLookup) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	text, maxPrice := SplitQuery(query)

	params := url.Values{}
	params.Set("q", text)
	params.Set("limit", strconv.Itoa(limit))
	if maxPrice > 0 {
		params.Set("maxPrice", strconv.Itoa(maxPrice))
	}

	var resp catalogResponse
	if err := l.client.GetJSON(ctx, l.baseURL+"/products/search?"+params.Encode(), &resp); err != nil {
		return nil, apperrors.NewProductLookupFailedError(backendHTTP, fmt.Errorf("catalog search: %w", err))
	}
	if len(resp.Products) > limit {
		resp.Products = resp.Products[:limit]
	}
	return resp.Products, nil
}
