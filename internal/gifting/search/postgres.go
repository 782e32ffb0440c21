package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	apperrors "gifting-workers/internal/common/errors"
	"gifting-workers/internal/models"
)

const productSearchSQL = `
SELECT id, name, price, COALESCE(image_url, ''), COALESCE(category, ''), COALESCE(brand, ''), COALESCE(description, '')
FROM products
WHERE search_vector @@ to_tsquery('english', $1)
  AND ($2 = 0 OR price <= $2)
ORDER BY ts_rank(search_vector, to_tsquery('english', $1)) DESC, id
LIMIT $3`

// PostgresLookup searches a products table with a tsvector column.
type PostgresLookup struct {
	db *sql.DB
}

func NewPostgresLookup(db *sql.DB) *PostgresLookup {
	return &PostgresLookup{db: db}
}

// stopTerms are dropped before building the tsquery.
var stopTerms = map[string]bool{"for": true, "gifts": true, "gift": true, "and": true, "the": true}

// TSQuery turns free text into an OR-joined tsquery expression.
func TSQuery(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 2 || stopTerms[w] {
			continue
		}
		terms = append(terms, w)
	}
	return strings.Join(terms, " | ")
}

func (l *PostgresLookup) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	text, maxPrice := SplitQuery(query)
	tsq := TSQuery(text)
	if tsq == "" {
		return []models.Product{}, nil
	}

	rows, err := l.db.QueryContext(ctx, productSearchSQL, tsq, maxPrice, limit)
	if err != nil {
		return nil, apperrors.NewProductLookupFailedError(backendPostgres, fmt.Errorf("postgres product search: %w", err))
	}
	defer rows.Close()

	products := make([]models.Product, 0, limit)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.Category, &p.Brand, &p.Description); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
