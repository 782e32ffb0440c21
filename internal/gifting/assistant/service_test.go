package assistant

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gifting-workers/internal/common/errors"
	"gifting-workers/internal/common/events"
	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/gifting/conversation"
	"gifting-workers/internal/gifting/search"
	"gifting-workers/internal/models"
)

// ==========================
// Test Helpers
// ==========================

// catalog returns limit products per query, named after the query's first word
// and priced 10, 20, 30...
type catalog struct {
	mu      sync.Mutex
	queries []string
}

func (c *catalog) Search(_ context.Context, query string, limit int) ([]models.Product, error) {
	c.mu.Lock()
	c.queries = append(c.queries, query)
	c.mu.Unlock()

	prefix := strings.Fields(query)[0]
	out := make([]models.Product, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, models.Product{
			ID:    fmt.Sprintf("%s-%d", prefix, i),
			Name:  fmt.Sprintf("%s product %d", prefix, i),
			Price: float64(10 * (i + 1)),
		})
	}
	return out, nil
}

func (c *catalog) lastQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries[len(c.queries)-1]
}

type MockInteractionLog struct {
	mock.Mock
}

func (m *MockInteractionLog) Record(ctx context.Context, conversationID string, interaction models.CategoryInteraction) error {
	args := m.Called(ctx, conversationID, interaction)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishInteraction(ctx context.Context, evt events.InteractionEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockPublisher) Close() error { return nil }

type failingStore struct {
	conversation.Store
	loadErr error
	saveErr error
}

func (f *failingStore) Load(ctx context.Context, id string) (*conversation.State, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return conversation.NewState(), nil
}

func (f *failingStore) Save(ctx context.Context, id string, s *conversation.State) error {
	return f.saveErr
}

func newTestService(t *testing.T, deps Dependencies) (*Service, *catalog) {
	t.Helper()
	cat := &catalog{}
	log := logger.NewTestLogger(t)
	deps.Executor = search.NewExecutor(cat, log)
	deps.Logger = log
	return NewService(Config{PerCategoryLimit: 4}, deps), cat
}

func productIDs(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

const firstMessage = "My wife loves cooking and yoga, her birthday is coming up"

// ==========================
// HandleMessage
// ==========================

func TestHandleMessage_NewSearch(t *testing.T) {
	store := conversation.NewMemoryStore()
	svc, _ := newTestService(t, Dependencies{Store: store})

	resp, err := svc.HandleMessage(context.Background(), "conv-1", firstMessage)
	require.NoError(t, err)

	assert.Equal(t, "conv-1", resp.ConversationID)
	assert.Nil(t, resp.FollowUp)
	require.NotNil(t, resp.Context)
	assert.Equal(t, "spouse", resp.Context.Recipient)
	assert.Equal(t, "birthday", resp.Context.Occasion)

	require.Len(t, resp.Results.Categories, 2)
	kitchen := resp.Results.Categories[0]
	assert.Equal(t, "kitchen", kitchen.CategoryName)
	assert.Equal(t, "Kitchen & Cooking", kitchen.DisplayName)
	assert.Equal(t, "cooking gifts for spouse birthday", kitchen.SearchQuery)
	assert.Equal(t, []string{"cooking-0", "cooking-1", "cooking-2", "cooking-3"}, productIDs(kitchen.Products))
	assert.Equal(t, 8, resp.Results.TotalResults)

	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "cooking", resp.Suggestions[0].Category)
	assert.Equal(t, 0.9, resp.Suggestions[0].Confidence)

	state, err := store.Load(context.Background(), "conv-1")
	require.NoError(t, err)
	require.NotNil(t, state.PreviousResults)
	assert.Len(t, state.PreviousResults.Categories, 2)
	assert.Equal(t, []string{"cooking", "yoga"}, state.Context.Interests)
}

func TestHandleMessage_GeneratesConversationID(t *testing.T) {
	svc, _ := newTestService(t, Dependencies{})

	resp, err := svc.HandleMessage(context.Background(), "", "hello there")
	require.NoError(t, err)

	_, parseErr := uuid.Parse(resp.ConversationID)
	assert.NoError(t, parseErr)
	assert.Empty(t, resp.Results.Categories)
	assert.NotNil(t, resp.Suggestions)
	assert.Empty(t, resp.Suggestions)
}

func TestHandleMessage_ContextCarriesAcrossTurns(t *testing.T) {
	svc, _ := newTestService(t, Dependencies{})
	ctx := context.Background()

	_, err := svc.HandleMessage(ctx, "conv-1", "gift for my dad, budget is $80")
	require.NoError(t, err)
	resp, err := svc.HandleMessage(ctx, "conv-1", "he is into golf, maybe under $200")
	require.NoError(t, err)

	require.NotNil(t, resp.Context.Budget)
	assert.Equal(t, 96, resp.Context.Budget.Max)
	assert.Equal(t, "parent", resp.Context.Recipient)
	require.Len(t, resp.Results.Categories, 1)
	assert.Equal(t, "golf gifts for parent under $96", resp.Results.Categories[0].SearchQuery)
}

func TestHandleMessage_ShowMoreExcludesShownProducts(t *testing.T) {
	pub := &MockPublisher{}
	pub.On("PublishInteraction", mock.Anything, mock.MatchedBy(func(evt events.InteractionEvent) bool {
		return evt.Action == "requested_more" && evt.CategoryName == "kitchen"
	})).Return(nil).Once()

	svc, cat := newTestService(t, Dependencies{Publisher: pub})
	ctx := context.Background()

	_, err := svc.HandleMessage(ctx, "conv-1", firstMessage)
	require.NoError(t, err)

	resp, err := svc.HandleMessage(ctx, "conv-1", "show me more kitchen items")
	require.NoError(t, err)

	require.NotNil(t, resp.FollowUp)
	assert.Equal(t, models.FollowUpShowMore, resp.FollowUp.Type)
	assert.Equal(t, "kitchen", resp.FollowUp.CategoryName)
	assert.Equal(t, "cooking gifts for spouse birthday", cat.lastQuery())

	require.Len(t, resp.Results.Categories, 1)
	got := resp.Results.Categories[0]
	assert.Equal(t, "Kitchen & Cooking", got.DisplayName)
	assert.Equal(t, []string{"cooking-4", "cooking-5", "cooking-6", "cooking-7"}, productIDs(got.Products))
	assert.Equal(t, 4, resp.Results.TotalResults)

	next, err := svc.DetectFollowUp(ctx, "conv-1", "more yoga stuff")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "fitness", next.CategoryName)

	pub.AssertExpectations(t)
}

func TestHandleMessage_CheaperUsesShownAverage(t *testing.T) {
	svc, cat := newTestService(t, Dependencies{})
	ctx := context.Background()

	_, err := svc.HandleMessage(ctx, "conv-1", firstMessage)
	require.NoError(t, err)

	resp, err := svc.HandleMessage(ctx, "conv-1", "cheaper kitchen stuff")
	require.NoError(t, err)

	require.NotNil(t, resp.FollowUp)
	assert.Equal(t, models.FollowUpRefine, resp.FollowUp.Type)
	assert.Equal(t, "cooking gifts for spouse birthday under $25", cat.lastQuery())
	for _, p := range resp.Results.Categories[0].Products {
		assert.LessOrEqual(t, p.Price, 25.0)
	}
	assert.Equal(t, 2, resp.Results.Categories[0].ResultCount)
}

func TestHandleMessage_RefineWithStatedCeiling(t *testing.T) {
	svc, cat := newTestService(t, Dependencies{})
	ctx := context.Background()

	_, err := svc.HandleMessage(ctx, "conv-1", firstMessage)
	require.NoError(t, err)

	resp, err := svc.HandleMessage(ctx, "conv-1", "under $30 yoga gear")
	require.NoError(t, err)

	require.NotNil(t, resp.FollowUp)
	require.NotNil(t, resp.FollowUp.Refinement.PriceMax)
	assert.Equal(t, 30, *resp.FollowUp.Refinement.PriceMax)
	assert.Equal(t, "yoga gear for spouse birthday under $30", cat.lastQuery())
	assert.Equal(t, []string{"yoga-0", "yoga-1", "yoga-2"}, productIDs(resp.Results.Categories[0].Products))
}

func TestHandleMessage_StoreFailure(t *testing.T) {
	svc, _ := newTestService(t, Dependencies{Store: &failingStore{loadErr: stderrors.New("redis down")}})

	_, err := svc.HandleMessage(context.Background(), "conv-1", firstMessage)
	require.Error(t, err)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConversationStateFailed, stdErr.Code)
}

// ==========================
// Track
// ==========================

func TestTrack_RecordsEverywhere(t *testing.T) {
	ilog := &MockInteractionLog{}
	ilog.On("Record", mock.Anything, "conv-1", mock.MatchedBy(func(in models.CategoryInteraction) bool {
		return in.ID != "" && in.CategoryName == "kitchen" && !in.Timestamp.IsZero()
	})).Return(nil).Twice()

	pub := &MockPublisher{}
	pub.On("PublishInteraction", mock.Anything, mock.MatchedBy(func(evt events.InteractionEvent) bool {
		return evt.ConversationID == "conv-1" && evt.InteractionID != ""
	})).Return(nil).Twice()

	svc, _ := newTestService(t, Dependencies{InteractionLog: ilog, Publisher: pub})
	ctx := context.Background()

	first, err := svc.Track(ctx, "conv-1", models.CategoryInteraction{CategoryName: "kitchen", Action: models.ActionViewed})
	require.NoError(t, err)
	assert.Empty(t, first.PreferredCategories)
	assert.Equal(t, 1, first.InteractionCount)

	second, err := svc.Track(ctx, "conv-1", models.CategoryInteraction{
		CategoryName: "kitchen",
		Action:       models.ActionExpanded,
		Products:     []models.Product{{ID: "p-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen"}, second.PreferredCategories)
	assert.Equal(t, 2, second.InteractionCount)
	assert.NotEqual(t, first.InteractionID, second.InteractionID)

	ilog.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestTrack_SideChannelFailuresAreNotFatal(t *testing.T) {
	ilog := &MockInteractionLog{}
	ilog.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("pg down"))
	pub := &MockPublisher{}
	pub.On("PublishInteraction", mock.Anything, mock.Anything).Return(stderrors.New("broker down"))

	svc, _ := newTestService(t, Dependencies{InteractionLog: ilog, Publisher: pub})

	res, err := svc.Track(context.Background(), "conv-1", models.CategoryInteraction{CategoryName: "travel", Action: models.ActionRequestedMore})
	require.NoError(t, err)
	assert.Equal(t, []string{"travel"}, res.PreferredCategories)
}

func TestTrack_Validation(t *testing.T) {
	svc, _ := newTestService(t, Dependencies{})
	ctx := context.Background()

	tests := []struct {
		name           string
		conversationID string
		interaction    models.CategoryInteraction
	}{
		{"missing conversation", "", models.CategoryInteraction{CategoryName: "kitchen", Action: models.ActionViewed}},
		{"missing category", "conv-1", models.CategoryInteraction{Action: models.ActionViewed}},
		{"unknown action", "conv-1", models.CategoryInteraction{CategoryName: "kitchen", Action: "liked"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Track(ctx, tt.conversationID, tt.interaction)
			require.Error(t, err)
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
		})
	}
}

func TestTrack_SaveFailure(t *testing.T) {
	svc, _ := newTestService(t, Dependencies{Store: &failingStore{saveErr: stderrors.New("READONLY")}})

	_, err := svc.Track(context.Background(), "conv-1", models.CategoryInteraction{CategoryName: "kitchen", Action: models.ActionViewed})
	require.Error(t, err)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConversationStateFailed, stdErr.Code)
}

// ==========================
// RecordResults
// ==========================

func TestRecordResults_EnablesFollowUp(t *testing.T) {
	svc, _ := newTestService(t, Dependencies{})
	ctx := context.Background()

	results := &models.GroupedSearchResults{Categories: []models.CategoryResults{
		{CategoryName: "travel", DisplayName: "Travel Gear", SearchQuery: "travel accessories"},
	}}
	require.NoError(t, svc.RecordResults(ctx, "conv-9", nil, results))

	fu, err := svc.DetectFollowUp(ctx, "conv-9", "show me other travel options")
	require.NoError(t, err)
	require.NotNil(t, fu)
	assert.Equal(t, "travel", fu.CategoryName)

	none, err := svc.DetectFollowUp(ctx, "unknown", "show me other travel options")
	require.NoError(t, err)
	assert.Nil(t, none)
}
