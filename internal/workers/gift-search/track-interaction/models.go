// internal/workers/gift-search/track-interaction/models.go
package trackinteraction

import "gifting-workers/internal/models"

type Input struct {
	ConversationID string           `json:"conversationId"`
	CategoryName   string           `json:"categoryName"`
	Action         string           `json:"action"`
	Products       []models.Product `json:"products,omitempty"`
}

type Output struct {
	InteractionID       string   `json:"interactionId"`
	PreferredCategories []string `json:"preferredCategories"`
	InteractionCount    int      `json:"interactionCount"`
	IsPreferred         bool     `json:"isPreferred"`
}
