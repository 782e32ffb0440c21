// internal/workers/gift-search/suggest-categories/models.go
package suggestcategories

import "gifting-workers/internal/models"

type Input struct {
	CurrentCategory string                `json:"currentCategory"`
	ParsedContext   *models.ParsedContext `json:"parsedContext,omitempty"`
}

type Output struct {
	Suggestions    []models.CrossCategorySuggestion `json:"suggestions"`
	HasSuggestions bool                             `json:"hasSuggestions"`
}
