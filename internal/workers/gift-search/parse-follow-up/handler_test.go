// internal/workers/gift-search/parse-follow-up/handler_test.go
package parsefollowup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
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

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) DetectFollowUp(ctx context.Context, conversationID, message string) (*models.FollowUpRequest, error) {
	args := m.Called(ctx, conversationID, message)
	if v := args.Get(0); v != nil {
		return v.(*models.FollowUpRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func createTestHandler(t *testing.T, detector Detector) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, detector, nil, logger.NewTestLogger(t))
}

// redisBackedService stores previous results in miniredis the way the
// worker manager wires it.
func redisBackedService(t *testing.T, previous *models.GroupedSearchResults) *assistant.Service {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := conversation.NewRedisStore(client, time.Hour)

	svc := assistant.NewService(assistant.Config{}, assistant.Dependencies{Store: store})
	require.NoError(t, svc.RecordResults(context.Background(), "conv-1", nil, previous))
	return svc
}

func previousResults() *models.GroupedSearchResults {
	return &models.GroupedSearchResults{Categories: []models.CategoryResults{
		{CategoryName: "cooking", DisplayName: "Cooking", SearchQuery: "cooking gifts"},
		{CategoryName: "fitness", DisplayName: "Fitness & Yoga", SearchQuery: "yoga gear"},
	}}
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_ShowMore(t *testing.T) {
	h := createTestHandler(t, redisBackedService(t, previousResults()))

	out, err := h.Execute(context.Background(), &Input{ConversationID: "conv-1", Message: "show me more cooking items"})
	require.NoError(t, err)

	assert.True(t, out.Detected)
	assert.Equal(t, "show_more", out.FollowUpType)
	assert.Equal(t, "cooking", out.CategoryName)
	require.NotNil(t, out.FollowUp)
	assert.Nil(t, out.FollowUp.Refinement)
}

func TestHandler_Execute_UnresolvedCategory(t *testing.T) {
	h := createTestHandler(t, redisBackedService(t, previousResults()))

	out, err := h.Execute(context.Background(), &Input{ConversationID: "conv-1", Message: "show me more skiing items"})
	require.NoError(t, err)
	assert.False(t, out.Detected)
	assert.Nil(t, out.FollowUp)
}

func TestHandler_Execute_RefineWithCeiling(t *testing.T) {
	h := createTestHandler(t, redisBackedService(t, previousResults()))

	out, err := h.Execute(context.Background(), &Input{ConversationID: "conv-1", Message: "cheaper cooking items under $50"})
	require.NoError(t, err)

	require.True(t, out.Detected)
	assert.Equal(t, "refine", out.FollowUpType)
	require.NotNil(t, out.FollowUp.Refinement)
	require.NotNil(t, out.FollowUp.Refinement.PriceMax)
	assert.Equal(t, 50, *out.FollowUp.Refinement.PriceMax)
}

func TestHandler_Execute_UnknownConversation(t *testing.T) {
	h := createTestHandler(t, redisBackedService(t, previousResults()))

	out, err := h.Execute(context.Background(), &Input{ConversationID: "conv-404", Message: "show me more cooking items"})
	require.NoError(t, err)
	assert.False(t, out.Detected)
}

func TestHandler_Execute_DetectorError(t *testing.T) {
	detector := &MockDetector{}
	detector.On("DetectFollowUp", mock.Anything, "conv-1", "more please").
		Return(nil, apperrors.NewConversationStateFailedError("conv-1", errors.New("i/o timeout")))

	h := createTestHandler(t, detector)
	_, err := h.Execute(context.Background(), &Input{ConversationID: "conv-1", Message: "more please"})
	require.Error(t, err)

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, "CONVERSATION", apperrors.GetErrorCategory(stdErr.Code))
	detector.AssertExpectations(t)
}

// ==========================
// Input Parsing
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := createTestHandler(t, &MockDetector{})

	valid := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 3, Variables: `{"conversationId": "c-1", "message": "more please"}`}}
	input, err := h.parseInput(valid)
	require.NoError(t, err)
	assert.Equal(t, "more please", input.Message)

	missing := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 4, Variables: `{"message": "more please"}`}}
	_, err = h.parseInput(missing)
	require.Error(t, err)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Contains(t, stdErr.Details, "conversationId")
}
