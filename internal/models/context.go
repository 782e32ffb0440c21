// internal/models/context.go
package models

// Budget is an inclusive price range in whole dollars.
type Budget struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// CategoryMapping links a detected interest or brand to a product category.
type CategoryMapping struct {
	Interest    string   `json:"interest"`
	Category    string   `json:"category"`
	SearchTerms []string `json:"searchTerms"`
	Priority    int      `json:"priority"`
}

// ParsedContext holds the signals extracted from a conversation so far.
//
// Interests and DetectedBrands only ever grow across turns. CategoryMappings
// describe the latest message only.
type ParsedContext struct {
	Recipient        string            `json:"recipient,omitempty"`
	Relationship     string            `json:"relationship,omitempty"`
	Occasion         string            `json:"occasion,omitempty"`
	ExactAge         *int              `json:"exactAge,omitempty"`
	Interests        []string          `json:"interests"`
	DetectedBrands   []string          `json:"detectedBrands"`
	CategoryMappings []CategoryMapping `json:"categoryMappings"`
	Budget           *Budget           `json:"budget,omitempty"`
}

// HasBudget reports whether a budget has been extracted.
func (c *ParsedContext) HasBudget() bool {
	return c != nil && c.Budget != nil
}

// Clone returns a deep copy so callers can mutate the result freely.
func (c *ParsedContext) Clone() *ParsedContext {
	if c == nil {
		return &ParsedContext{Interests: []string{}, DetectedBrands: []string{}, CategoryMappings: []CategoryMapping{}}
	}
	out := *c
	out.Interests = append([]string{}, c.Interests...)
	out.DetectedBrands = append([]string{}, c.DetectedBrands...)
	out.CategoryMappings = make([]CategoryMapping, len(c.CategoryMappings))
	for i, m := range c.CategoryMappings {
		m.SearchTerms = append([]string{}, m.SearchTerms...)
		out.CategoryMappings[i] = m
	}
	if c.ExactAge != nil {
		age := *c.ExactAge
		out.ExactAge = &age
	}
	if c.Budget != nil {
		b := *c.Budget
		out.Budget = &b
	}
	return &out
}
