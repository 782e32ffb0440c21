// internal/models/conversation.go
package models

import "time"

// InteractionAction is what the user did with a category of results.
type InteractionAction string

const (
	ActionViewed        InteractionAction = "viewed"
	ActionExpanded      InteractionAction = "expanded"
	ActionDismissed     InteractionAction = "dismissed"
	ActionRequestedMore InteractionAction = "requested_more"
	ActionPurchased     InteractionAction = "purchased"
)

// IsValid reports whether the action is one the tracker understands.
func (a InteractionAction) IsValid() bool {
	switch a {
	case ActionViewed, ActionExpanded, ActionDismissed, ActionRequestedMore, ActionPurchased:
		return true
	}
	return false
}

// SignalsPreference reports whether the action marks the category as preferred.
func (a InteractionAction) SignalsPreference() bool {
	return a == ActionExpanded || a == ActionRequestedMore
}

// CategoryInteraction is a single user event against a result category.
type CategoryInteraction struct {
	ID           string            `json:"id,omitempty"`
	CategoryName string            `json:"categoryName"`
	Action       InteractionAction `json:"action"`
	Timestamp    time.Time         `json:"timestamp"`
	Products     []Product         `json:"products,omitempty"`
}

// FollowUpType distinguishes follow-up request families.
type FollowUpType string

const (
	FollowUpShowMore FollowUpType = "show_more"
	FollowUpRefine   FollowUpType = "refine"
)

// Refinement narrows a follow-up search.
type Refinement struct {
	Direction string `json:"direction,omitempty"` // cheaper, better
	PriceMax  *int   `json:"priceMax,omitempty"`
}

// FollowUpRequest is a message recognised as acting on earlier results.
type FollowUpRequest struct {
	Type         FollowUpType `json:"type"`
	CategoryName string       `json:"categoryName"`
	Hint         string       `json:"hint,omitempty"`
	Refinement   *Refinement  `json:"refinement,omitempty"`
}

// CrossCategorySuggestion proposes an adjacent category to explore.
type CrossCategorySuggestion struct {
	Category   string  `json:"category"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}
