// Package querygen turns a parsed gift context into per-category search queries.
package querygen

import (
	"fmt"
	"sort"
	"strings"

	"gifting-workers/internal/models"
)

// MaxQueries bounds the number of category queries per search.
const MaxQueries = 4

// BuildQuery composes the search string for one category mapping.
func BuildQuery(m models.CategoryMapping, ctx *models.ParsedContext) string {
	base := m.Category
	if len(m.SearchTerms) > 0 {
		base = m.SearchTerms[0]
	}

	var sb strings.Builder
	sb.WriteString(base)
	if ctx.Recipient != "" && !strings.Contains(base, "for") {
		sb.WriteString(" for ")
		sb.WriteString(ctx.Recipient)
	}
	if ctx.Occasion != "" {
		sb.WriteString(" ")
		sb.WriteString(ctx.Occasion)
	}
	if ctx.Budget != nil {
		sb.WriteString(fmt.Sprintf(" under $%d", ctx.Budget.Max))
	}
	return sb.String()
}

// Generate builds one query per category mapping, ordered by descending
// priority with ties kept in mapping order, and capped at MaxQueries.
func Generate(ctx *models.ParsedContext) []models.CategoryQuery {
	if ctx == nil || len(ctx.CategoryMappings) == 0 {
		return []models.CategoryQuery{}
	}

	queries := make([]models.CategoryQuery, 0, len(ctx.CategoryMappings))
	for _, m := range ctx.CategoryMappings {
		queries = append(queries, models.CategoryQuery{
			Query:    BuildQuery(m, ctx),
			Category: m.Category,
			Priority: m.Priority,
			Interest: m.Interest,
		})
	}

	sort.SliceStable(queries, func(i, j int) bool {
		return queries[i].Priority > queries[j].Priority
	})

	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}
	return queries
}
