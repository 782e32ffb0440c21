// internal/workers/gift-search/parse-gift-context/models.go
package parsegiftcontext

import "gifting-workers/internal/models"

type Input struct {
	Message        string                `json:"message"`
	PriorContext   *models.ParsedContext `json:"priorContext,omitempty"`
	ConversationID string                `json:"conversationId,omitempty"`
}

type Output struct {
	ParsedContext *models.ParsedContext  `json:"parsedContext"`
	Queries       []models.CategoryQuery `json:"queries"`
	QueryCount    int                    `json:"queryCount"`
	HasBudget     bool                   `json:"hasBudget"`
}
