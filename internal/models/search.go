// internal/models/search.go
package models

// CategoryQuery is one per-category search derived from a ParsedContext.
type CategoryQuery struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Interest string `json:"interest,omitempty"`
}

// CategoryResults is the outcome of a single category lookup.
type CategoryResults struct {
	CategoryName   string    `json:"categoryName"`
	DisplayName    string    `json:"displayName"`
	SearchQuery    string    `json:"searchQuery"`
	Products       []Product `json:"products"`
	ResultCount    int       `json:"resultCount"`
	SearchTimeMs   int64     `json:"searchTime"`
	RelevanceScore int       `json:"relevanceScore"`
}

// SearchMetrics summarises a multi-category search run.
type SearchMetrics struct {
	TotalTimeMs        int64 `json:"totalTime"`
	QueryCount         int   `json:"queryCount"`
	SuccessfulSearches int   `json:"successfulSearches"`
	FailedSearches     int   `json:"failedSearches"`
}

// GroupedSearchResults holds category results ordered by descending relevance.
type GroupedSearchResults struct {
	Categories   []CategoryResults `json:"categories"`
	TotalResults int               `json:"totalResults"`
	Metrics      SearchMetrics     `json:"searchMetrics"`
}

// Category returns the category with the given internal name, if present.
func (g *GroupedSearchResults) Category(name string) (*CategoryResults, bool) {
	if g == nil {
		return nil, false
	}
	for i := range g.Categories {
		if g.Categories[i].CategoryName == name {
			return &g.Categories[i], true
		}
	}
	return nil, false
}
