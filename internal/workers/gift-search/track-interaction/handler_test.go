// internal/workers/gift-search/track-interaction/handler_test.go
package trackinteraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gifting-workers/internal/common/errors"
	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/gifting/assistant"
	"gifting-workers/internal/gifting/conversation"
	"gifting-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestService(store conversation.Store) *assistant.Service {
	return assistant.NewService(assistant.Config{}, assistant.Dependencies{Store: store})
}

func createTestHandler(t *testing.T, tracker InteractionTracker) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, tracker, nil, logger.NewTestLogger(t))
}

type failingTracker struct{ err error }

func (f failingTracker) Track(context.Context, string, models.CategoryInteraction) (*assistant.TrackResult, error) {
	return nil, f.err
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_TracksAndPersists(t *testing.T) {
	store := conversation.NewMemoryStore()
	h := createTestHandler(t, createTestService(store))
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{ConversationID: "conv-1", CategoryName: "fitness", Action: "viewed"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.InteractionID)
	assert.False(t, out.IsPreferred)
	assert.Equal(t, 1, out.InteractionCount)

	out, err = h.Execute(ctx, &Input{
		ConversationID: "conv-1",
		CategoryName:   "fitness",
		Action:         "requested_more",
		Products:       []models.Product{{ID: "mat-1", Name: "Yoga Mat", Price: 45}},
	})
	require.NoError(t, err)
	assert.True(t, out.IsPreferred)
	assert.Equal(t, []string{"fitness"}, out.PreferredCategories)
	assert.Equal(t, 2, out.InteractionCount)

	state, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, state.Interactions, 2)
	assert.Equal(t, "mat-1", state.Interactions[1].Products[0].ID)
}

func TestHandler_Execute_BufferCapped(t *testing.T) {
	h := createTestHandler(t, createTestService(conversation.NewMemoryStore()))

	var out *Output
	var err error
	for i := 0; i < 12; i++ {
		out, err = h.Execute(context.Background(), &Input{ConversationID: "conv-1", CategoryName: "books", Action: "dismissed"})
		require.NoError(t, err)
	}
	assert.Equal(t, conversation.MaxInteractions, out.InteractionCount)
	assert.Empty(t, out.PreferredCategories)
}

func TestHandler_Execute_UnknownAction(t *testing.T) {
	h := createTestHandler(t, createTestService(nil))

	_, err := h.Execute(context.Background(), &Input{ConversationID: "conv-1", CategoryName: "books", Action: "liked"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestHandler_Execute_TrackerError(t *testing.T) {
	stateErr := apperrors.NewConversationStateFailedError("conv-1", errors.New("redis timeout"))
	h := createTestHandler(t, failingTracker{err: stateErr})

	_, err := h.Execute(context.Background(), &Input{ConversationID: "conv-1", CategoryName: "books", Action: "viewed"})
	require.Error(t, err)

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, 3, apperrors.GetRetryCount(stdErr.Code))
}

// ==========================
// Input Parsing
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := createTestHandler(t, createTestService(nil))

	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{"valid", `{"conversationId": "c-1", "categoryName": "kitchen", "action": "expanded"}`, false},
		{"with products", `{"conversationId": "c-1", "categoryName": "kitchen", "action": "purchased", "products": [{"id": "p-1"}]}`, false},
		{"bad action", `{"conversationId": "c-1", "categoryName": "kitchen", "action": "liked"}`, true},
		{"missing category", `{"conversationId": "c-1", "action": "viewed"}`, true},
		{"empty conversation", `{"conversationId": "", "categoryName": "kitchen", "action": "viewed"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 9, Type: TaskType, Variables: tt.variables}}
			input, err := h.parseInput(job)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "kitchen", input.CategoryName)
		})
	}
}
