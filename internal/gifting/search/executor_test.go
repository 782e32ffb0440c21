package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/gifting/contextparser"
	"gifting-workers/internal/models"
)

// ==========================
// Mock Lookup
// ==========================

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func makeProducts(prefix string, n int) []models.Product {
	out := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Product{ID: fmt.Sprintf("%s-%d", prefix, i), Name: fmt.Sprintf("%s %d", prefix, i), Price: float64(10 + i)})
	}
	return out
}

func endToEndContext(t *testing.T) *models.ParsedContext {
	return contextparser.New(logger.NewTestLogger(t)).
		Parse("I need a birthday gift for my wife who loves cooking and yoga, budget around $100", nil)
}

// ==========================
// Search
// ==========================

func TestExecutor_Search_EndToEnd(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("Search", mock.Anything, "cooking gifts for spouse birthday under $130", 8).Return(makeProducts("pan", 8), nil)
	lookup.On("Search", mock.Anything, "yoga gear for spouse birthday under $130", 8).Return(makeProducts("mat", 3), nil)

	exec := NewExecutor(lookup, logger.NewTestLogger(t))
	res := exec.Search(context.Background(), endToEndContext(t), 4)

	require.Len(t, res.Categories, 2)
	assert.Equal(t, "kitchen", res.Categories[0].CategoryName)
	assert.Equal(t, "Kitchen & Cooking", res.Categories[0].DisplayName)
	assert.Len(t, res.Categories[0].Products, 4)
	assert.Equal(t, 4, res.Categories[0].ResultCount)
	assert.Equal(t, "fitness", res.Categories[1].CategoryName)
	assert.Equal(t, 3, res.Categories[1].ResultCount)
	assert.Equal(t, 7, res.TotalResults)
	assert.Equal(t, 2, res.Metrics.SuccessfulSearches)
	assert.Equal(t, 0, res.Metrics.FailedSearches)
	assert.Equal(t, 2, res.Metrics.QueryCount)

	for _, c := range res.Categories {
		assert.GreaterOrEqual(t, c.RelevanceScore, 0)
		assert.LessOrEqual(t, c.RelevanceScore, 100)
	}
	lookup.AssertExpectations(t)
}

func TestExecutor_Search_NoQueries(t *testing.T) {
	lookup := new(MockLookup)
	exec := NewExecutor(lookup, logger.NewTestLogger(t))

	res := exec.Search(context.Background(), &models.ParsedContext{}, 4)

	assert.Empty(t, res.Categories)
	assert.Zero(t, res.TotalResults)
	assert.Zero(t, res.Metrics.TotalTimeMs)
	assert.Zero(t, res.Metrics.FailedSearches)
	lookup.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecutor_Search_OneFailureIsIsolated(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("Search", mock.Anything, mock.MatchedBy(func(q string) bool { return q[:4] == "cook" }), 8).
		Return(nil, errors.New("catalog unavailable"))
	lookup.On("Search", mock.Anything, mock.MatchedBy(func(q string) bool { return q[:4] == "yoga" }), 8).
		Return(makeProducts("mat", 2), nil)

	res := NewExecutor(lookup, logger.NewTestLogger(t)).Search(context.Background(), endToEndContext(t), 4)

	require.Len(t, res.Categories, 1)
	assert.Equal(t, "fitness", res.Categories[0].CategoryName)
	assert.Equal(t, 1, res.Metrics.FailedSearches)
	assert.Equal(t, 1, res.Metrics.SuccessfulSearches)
	assert.Equal(t, 2, res.TotalResults)
}

func TestExecutor_Search_TotalFailure(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	res := NewExecutor(lookup, logger.NewTestLogger(t)).Search(context.Background(), endToEndContext(t), 4)

	assert.Empty(t, res.Categories)
	assert.Zero(t, res.TotalResults)
	assert.Equal(t, 2, res.Metrics.FailedSearches)
	assert.Equal(t, 0, res.Metrics.SuccessfulSearches)
}

func TestExecutor_Search_PerQueryTimeout(t *testing.T) {
	slow := LookupFunc(func(ctx context.Context, query string, limit int) ([]models.Product, error) {
		if query[:4] == "yoga" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return makeProducts("pan", 1), nil
	})

	exec := NewExecutor(slow, logger.NewTestLogger(t), WithQueryTimeout(20*time.Millisecond))
	res := exec.Search(context.Background(), endToEndContext(t), 4)

	require.Len(t, res.Categories, 1)
	assert.Equal(t, "kitchen", res.Categories[0].CategoryName)
	assert.Equal(t, 1, res.Metrics.FailedSearches)
}

func TestExecutor_Search_PanickingLookupIsIsolated(t *testing.T) {
	lookup := LookupFunc(func(ctx context.Context, query string, limit int) ([]models.Product, error) {
		if query[:4] == "yoga" {
			panic("malformed catalog response")
		}
		return makeProducts("pan", 2), nil
	})

	res := NewExecutor(lookup, logger.NewTestLogger(t)).Search(context.Background(), endToEndContext(t), 4)

	require.Len(t, res.Categories, 1)
	assert.Equal(t, "kitchen", res.Categories[0].CategoryName)
	assert.Equal(t, 1, res.Metrics.FailedSearches)
	assert.Equal(t, 1, res.Metrics.SuccessfulSearches)
	assert.Equal(t, 2, res.TotalResults)
}

func TestExecutor_Search_DispatchesConcurrently(t *testing.T) {
	var inFlight, peak int32
	release := make(chan struct{})
	lookup := LookupFunc(func(ctx context.Context, query string, limit int) ([]models.Product, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		if n == 2 {
			close(release)
		}
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		atomic.AddInt32(&inFlight, -1)
		return makeProducts("x", 1), nil
	})

	res := NewExecutor(lookup, logger.NewTestLogger(t), WithQueryTimeout(time.Second)).
		Search(context.Background(), endToEndContext(t), 4)

	assert.Equal(t, int32(2), atomic.LoadInt32(&peak))
	assert.Equal(t, 2, res.Metrics.SuccessfulSearches)
}

func TestExecutor_SortedByRelevance(t *testing.T) {
	lookup := LookupFunc(func(ctx context.Context, query string, limit int) ([]models.Product, error) {
		return makeProducts("p", 1), nil
	})
	parsed := &models.ParsedContext{
		Interests:      []string{"golf"},
		DetectedBrands: []string{"nike"},
	}
	queries := []models.CategoryQuery{
		{Query: "plain things", Category: "misc", Priority: 1},
		{Query: "nike sneakers", Category: "athletic-wear", Priority: 1, Interest: "nike"},
		{Query: "golf gifts", Category: "sports", Priority: 2, Interest: "golf"},
	}

	res := NewExecutor(lookup, logger.NewTestLogger(t)).SearchQueries(context.Background(), parsed, queries, 2)

	require.Len(t, res.Categories, 3)
	assert.Equal(t, "sports", res.Categories[0].CategoryName)
	assert.Equal(t, 65, res.Categories[0].RelevanceScore)
	assert.Equal(t, "athletic-wear", res.Categories[1].CategoryName)
	assert.Equal(t, "Nike Athletic Gear", res.Categories[1].DisplayName)
	assert.Equal(t, 50, res.Categories[1].RelevanceScore)
	assert.Equal(t, "misc", res.Categories[2].CategoryName)
	assert.Equal(t, "Misc", res.Categories[2].DisplayName)
}

type recorderStub struct {
	categories, failed int
}

func (r *recorderStub) RecordCategories(_ context.Context, categories, failed int) {
	r.categories, r.failed = categories, failed
}

func TestExecutor_Recorder(t *testing.T) {
	rec := &recorderStub{}
	lookup := LookupFunc(func(ctx context.Context, query string, limit int) ([]models.Product, error) {
		return nil, errors.New("nope")
	})

	NewExecutor(lookup, nil, WithRecorder(rec)).Search(context.Background(), endToEndContext(t), 0)

	assert.Equal(t, 0, rec.categories)
	assert.Equal(t, 2, rec.failed)
}
