package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/common/metrics"
	"gifting-workers/internal/gifting/querygen"
	"gifting-workers/internal/models"
)

const (
	DefaultPerCategoryLimit = 4
	DefaultQueryTimeout     = 5 * time.Second

	// candidatePoolFactor widens each lookup beyond the per-category cap.
	candidatePoolFactor = 2
	slowSearchThreshold = 2 * time.Second
)

// Recorder receives per-search observations.
type Recorder interface {
	RecordCategories(ctx context.Context, categories, failed int)
}

type ExecutorOption func(*Executor)

// WithQueryTimeout bounds every individual category lookup.
func WithQueryTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.queryTimeout = d
		}
	}
}

func WithRecorder(r Recorder) ExecutorOption {
	return func(e *Executor) { e.recorder = r }
}

// Executor fans category queries out to a ProductLookup and assembles ranked groups.
type Executor struct {
	lookup       ProductLookup
	logger       logger.Logger
	queryTimeout time.Duration
	recorder     Recorder
}

func NewExecutor(lookup ProductLookup, log logger.Logger, opts ...ExecutorOption) *Executor {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	e := &Executor{
		lookup:       lookup,
		logger:       log,
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search generates queries from parsed and runs them.
func (e *Executor) Search(ctx context.Context, parsed *models.ParsedContext, perCategoryLimit int) *models.GroupedSearchResults {
	return e.SearchQueries(ctx, parsed, querygen.Generate(parsed), perCategoryLimit)
}

// SearchQueries runs every query concurrently. A failed, timed-out or panicking
// lookup drops its category and is counted in the metrics; it never fails the search.
func (e *Executor) SearchQueries(ctx context.Context, parsed *models.ParsedContext, queries []models.CategoryQuery, perCategoryLimit int) *models.GroupedSearchResults {
	if len(queries) == 0 {
		return &models.GroupedSearchResults{Categories: []models.CategoryResults{}}
	}
	if perCategoryLimit <= 0 {
		perCategoryLimit = DefaultPerCategoryLimit
	}

	start := time.Now()
	slots := make([]*models.CategoryResults, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q models.CategoryQuery) {
			defer wg.Done()
			slots[i] = e.searchCategory(ctx, parsed, q, perCategoryLimit)
		}(i, q)
	}
	wg.Wait()

	out := &models.GroupedSearchResults{Categories: make([]models.CategoryResults, 0, len(queries))}
	for _, r := range slots {
		if r == nil {
			out.Metrics.FailedSearches++
			continue
		}
		out.Metrics.SuccessfulSearches++
		out.TotalResults += r.ResultCount
		out.Categories = append(out.Categories, *r)
	}

	sort.SliceStable(out.Categories, func(i, j int) bool {
		return out.Categories[i].RelevanceScore > out.Categories[j].RelevanceScore
	})

	elapsed := time.Since(start)
	out.Metrics.TotalTimeMs = elapsed.Milliseconds()
	out.Metrics.QueryCount = len(queries)

	metrics.ObserveSearch(elapsed, out.TotalResults)
	if e.recorder != nil {
		e.recorder.RecordCategories(ctx, len(out.Categories), out.Metrics.FailedSearches)
	}

	fields := map[string]interface{}{
		"queries":    len(queries),
		"successful": out.Metrics.SuccessfulSearches,
		"failed":     out.Metrics.FailedSearches,
		"results":    out.TotalResults,
		"durationMs": out.Metrics.TotalTimeMs,
	}
	if elapsed > slowSearchThreshold {
		e.logger.Warn("multi-category search slow", fields)
	} else {
		e.logger.Debug("multi-category search completed", fields)
	}
	return out
}

// searchCategory returns nil when the lookup fails, times out or panics.
func (e *Executor) searchCategory(ctx context.Context, parsed *models.ParsedContext, q models.CategoryQuery, limit int) (res *models.CategoryResults) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordLookup(metrics.LookupFailure)
			e.logger.Warn("category lookup panicked", map[string]interface{}{
				"category": q.Category,
				"query":    q.Query,
				"panic":    fmt.Sprint(r),
			})
			res = nil
		}
	}()

	lookupCtx, cancel := context.WithTimeout(ctx, e.queryTimeout)
	defer cancel()

	start := time.Now()
	products, err := e.lookup.Search(lookupCtx, q.Query, limit*candidatePoolFactor)
	if err != nil {
		status := metrics.LookupFailure
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(lookupCtx.Err(), context.DeadlineExceeded) {
			status = metrics.LookupTimeout
		}
		metrics.RecordLookup(status)
		e.logger.Warn("category lookup failed", map[string]interface{}{
			"category": q.Category,
			"query":    q.Query,
			"status":   status,
			"error":    err.Error(),
		})
		return nil
	}
	metrics.RecordLookup(metrics.LookupSuccess)

	if len(products) > limit {
		products = products[:limit]
	}
	if products == nil {
		products = []models.Product{}
	}

	return &models.CategoryResults{
		CategoryName:   q.Category,
		DisplayName:    DisplayName(q, parsed),
		SearchQuery:    q.Query,
		Products:       products,
		ResultCount:    len(products),
		SearchTimeMs:   time.Since(start).Milliseconds(),
		RelevanceScore: RelevanceScore(q, parsed),
	}
}
