package conversation

import (
	"math"
	"sort"
	"strings"

	"gifting-workers/internal/models"
)

const (
	MaxSuggestions = 2

	baseConfidence     = 0.6
	interestBoost      = 0.2
	personalisedBoost  = 0.1
	maxConfidenceScore = 1.0
)

// Suggest proposes up to MaxSuggestions categories adjacent to current.
func Suggest(current string, ctx *models.ParsedContext) []models.CrossCategorySuggestion {
	out := []models.CrossCategorySuggestion{}
	for _, related := range relatedCategories[current] {
		reason, ok := suggestionReasons[current+":"+related]
		if !ok {
			continue
		}
		out = append(out, models.CrossCategorySuggestion{
			Category:   related,
			Reasoning:  reason,
			Confidence: confidence(current, related, ctx),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

func confidence(current, related string, ctx *models.ParsedContext) float64 {
	score := baseConfidence
	if ctx != nil {
		if interestsMention(ctx.Interests, current, related) {
			score += interestBoost
		}
		if ctx.Recipient != "" && ctx.Occasion != "" {
			score += personalisedBoost
		}
	}
	score = math.Min(score, maxConfidenceScore)
	return math.Round(score*100) / 100
}

func interestsMention(interests []string, categories ...string) bool {
	for _, in := range interests {
		in = strings.ToLower(in)
		if in == "" {
			continue
		}
		for _, c := range categories {
			if strings.Contains(in, c) || strings.Contains(c, in) {
				return true
			}
		}
	}
	return false
}
