// internal/workers/gift-search/parse-follow-up/models.go
package parsefollowup

import "gifting-workers/internal/models"

type Input struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

// Output flattens the follow-up type and category so gateways can route on them.
type Output struct {
	Detected     bool                    `json:"detected"`
	FollowUpType string                  `json:"followUpType,omitempty"`
	CategoryName string                  `json:"categoryName,omitempty"`
	FollowUp     *models.FollowUpRequest `json:"followUp,omitempty"`
}
