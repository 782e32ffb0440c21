// Package search runs category queries against a product catalog and ranks the groups.
package search

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"gifting-workers/internal/models"
)

// Backend names reported on PRODUCT_LOOKUP_FAILED errors.
const (
	backendElasticsearch = "elasticsearch"
	backendPostgres      = "postgres"
	backendHTTP          = "http"
)

// ProductLookup is the external product source. Implementations return at
// most limit products, best match first.
type ProductLookup interface {
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
}

// LookupFunc adapts a function to ProductLookup.
type LookupFunc func(ctx context.Context, query string, limit int) ([]models.Product, error)

func (f LookupFunc) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return f(ctx, query, limit)
}

var priceCeiling = regexp.MustCompile(`(?i)\s*\bunder\s+\$(\d+)\s*$`)

// SplitQuery separates a trailing "under $N" clause from the free-text part
// of a generated query. maxPrice is 0 when no ceiling is present.
func SplitQuery(query string) (text string, maxPrice int) {
	m := priceCeiling.FindStringSubmatchIndex(query)
	if m == nil {
		return strings.TrimSpace(query), 0
	}
	n, err := strconv.Atoi(query[m[2]:m[3]])
	if err != nil {
		return strings.TrimSpace(query), 0
	}
	return strings.TrimSpace(query[:m[0]]), n
}
