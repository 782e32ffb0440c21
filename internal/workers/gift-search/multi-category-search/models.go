// internal/workers/gift-search/multi-category-search/models.go
package multicategorysearch

import "gifting-workers/internal/models"

type Input struct {
	ParsedContext    models.ParsedContext `json:"parsedContext"`
	PerCategoryLimit int                  `json:"perCategoryLimit,omitempty"`
	ConversationID   string               `json:"conversationId,omitempty"`
}

type Output struct {
	Results     *models.GroupedSearchResults `json:"results"`
	HasResults  bool                         `json:"hasResults"`
	TopCategory string                       `json:"topCategory,omitempty"`
}
