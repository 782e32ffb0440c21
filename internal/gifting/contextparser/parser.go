// Package contextparser extracts gift-search signals from free-text messages.
package contextparser

import (
	"strings"

	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/models"
)

type Parser struct {
	logger logger.Logger
}

func New(log logger.Logger) *Parser {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Parser{logger: log}
}

// Parse merges the signals found in message into a copy of prior.
//
// Interests and brands are unioned with prior, category mappings reflect only
// this message, a prior budget is never replaced, and relationship and age are
// replaced only when the message states new ones.
func (p *Parser) Parse(message string, prior *models.ParsedContext) *models.ParsedContext {
	out := prior.Clone()
	out.CategoryMappings = []models.CategoryMapping{}

	lowered := strings.ToLower(message)

	for _, b := range MatchBrands(lowered) {
		out.DetectedBrands = appendUnique(out.DetectedBrands, b.Name)
		out.CategoryMappings = append(out.CategoryMappings, models.CategoryMapping{
			Interest:    b.Name,
			Category:    b.Category,
			SearchTerms: append([]string{}, b.SearchTerms...),
			Priority:    BrandPriority,
		})
	}

	for _, in := range MatchInterests(lowered) {
		out.Interests = appendUnique(out.Interests, in.Keyword)
		out.CategoryMappings = append(out.CategoryMappings, models.CategoryMapping{
			Interest:    in.Keyword,
			Category:    in.Category,
			SearchTerms: append([]string{}, in.SearchTerms...),
			Priority:    in.Priority,
		})
	}

	if rel, ok := MatchRelationship(message); ok {
		out.Recipient = rel
		out.Relationship = rel
	}

	if out.Occasion == "" {
		if occ, ok := MatchOccasion(message); ok {
			out.Occasion = occ
		}
	}

	if age, ok := MatchAge(message); ok {
		out.ExactAge = &age
	}

	if prior == nil || prior.Budget == nil {
		if b, rule := ExtractBudget(message); b != nil {
			out.Budget = b
			p.logger.Debug("budget extracted", map[string]interface{}{
				"rule": rule,
				"min":  b.Min,
				"max":  b.Max,
			})
		}
	}

	p.logger.Debug("context parsed", map[string]interface{}{
		"recipient": out.Recipient,
		"occasion":  out.Occasion,
		"interests": len(out.Interests),
		"brands":    len(out.DetectedBrands),
		"mappings":  len(out.CategoryMappings),
	})
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
