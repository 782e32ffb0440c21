// Package conversation tracks per-conversation interaction state and interprets follow-up requests.
package conversation

import (
	"time"

	"gifting-workers/internal/models"
)

// MaxInteractions is the number of recent interactions kept per conversation.
const MaxInteractions = 10

// State is the persisted form of a conversation.
type State struct {
	Interactions        []models.CategoryInteraction `json:"interactions"`
	PreferredCategories []string                     `json:"preferredCategories"`
	PreviousResults     *models.GroupedSearchResults `json:"previousResults,omitempty"`
	Context             *models.ParsedContext        `json:"context,omitempty"`
	UpdatedAt           time.Time                    `json:"updatedAt"`
}

func NewState() *State {
	return &State{
		Interactions:        []models.CategoryInteraction{},
		PreferredCategories: []string{},
	}
}

// Tracker mutates a single conversation's State. It is not safe for
// concurrent use; load one Tracker per request.
type Tracker struct {
	state *State
	now   func() time.Time
}

func NewTracker(state *State) *Tracker {
	if state == nil {
		state = NewState()
	}
	return &Tracker{state: state, now: time.Now}
}

// Track appends an interaction, dropping the oldest beyond MaxInteractions.
// Expanded and requested_more actions mark the category as preferred.
func (t *Tracker) Track(interaction models.CategoryInteraction) {
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = t.now().UTC()
	}

	t.state.Interactions = append(t.state.Interactions, interaction)
	if over := len(t.state.Interactions) - MaxInteractions; over > 0 {
		kept := make([]models.CategoryInteraction, MaxInteractions)
		copy(kept, t.state.Interactions[over:])
		t.state.Interactions = kept
	}

	if interaction.Action.SignalsPreference() && !containsExact(t.state.PreferredCategories, interaction.CategoryName) {
		t.state.PreferredCategories = append(t.state.PreferredCategories, interaction.CategoryName)
	}
	t.state.UpdatedAt = t.now().UTC()
}

// PreferredCategories returns categories in order of first preference signal.
func (t *Tracker) PreferredCategories() []string {
	return append([]string{}, t.state.PreferredCategories...)
}

// Interactions returns the retained interactions, oldest first.
func (t *Tracker) Interactions() []models.CategoryInteraction {
	return append([]models.CategoryInteraction{}, t.state.Interactions...)
}

// UpdateFromResults replaces the results that follow-ups are resolved against.
func (t *Tracker) UpdateFromResults(results *models.GroupedSearchResults) {
	t.state.PreviousResults = results
	t.state.UpdatedAt = t.now().UTC()
}

func (t *Tracker) PreviousResults() *models.GroupedSearchResults {
	return t.state.PreviousResults
}

// UpdateContext stores the latest parsed context for the next turn.
func (t *Tracker) UpdateContext(ctx *models.ParsedContext) {
	t.state.Context = ctx
	t.state.UpdatedAt = t.now().UTC()
}

func (t *Tracker) Context() *models.ParsedContext {
	return t.state.Context
}

// State exposes the underlying state for persistence.
func (t *Tracker) State() *State {
	return t.state
}

func containsExact(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
