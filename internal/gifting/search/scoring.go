package search

import (
	"strings"

	"gifting-workers/internal/models"
)

const (
	priorityWeight = 20
	brandBonus     = 30
	interestBonus  = 25
	recipientBonus = 15
	occasionBonus  = 20
	maxRelevance   = 100
)

// RelevanceScore scores a category query lexically from its text and the
// parsed context, clamped to [0, 100].
func RelevanceScore(q models.CategoryQuery, ctx *models.ParsedContext) int {
	score := q.Priority * priorityWeight
	text := strings.ToLower(q.Query)

	if ctx != nil {
		if containsAny(text, ctx.DetectedBrands) {
			score += brandBonus
		}
		if containsAny(text, ctx.Interests) {
			score += interestBonus
		}
		if ctx.Recipient != "" && strings.Contains(text, "for") {
			score += recipientBonus
		}
		if ctx.Occasion != "" && strings.Contains(text, strings.ToLower(ctx.Occasion)) {
			score += occasionBonus
		}
	}

	if score < 0 {
		return 0
	}
	if score > maxRelevance {
		return maxRelevance
	}
	return score
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(text, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
