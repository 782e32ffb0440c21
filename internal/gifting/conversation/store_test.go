package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifting-workers/internal/models"
)

func sampleState() *State {
	tr := NewTracker(nil)
	tr.Track(models.CategoryInteraction{ID: "i-1", CategoryName: "kitchen", Action: models.ActionExpanded})
	tr.UpdateFromResults(&models.GroupedSearchResults{
		Categories:   []models.CategoryResults{{CategoryName: "kitchen", DisplayName: "Kitchen & Cooking", ResultCount: 1}},
		TotalResults: 1,
	})
	tr.UpdateContext(&models.ParsedContext{Recipient: "mom", Interests: []string{"cooking"}})
	return tr.State()
}

// ==========================================
// MemoryStore
// ==========================================

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	fresh, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Interactions)
	assert.NotNil(t, fresh.PreferredCategories)

	require.NoError(t, store.Save(ctx, "conv-1", sampleState()))
	assert.Equal(t, 1, store.Len())

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen"}, loaded.PreferredCategories)
	require.NotNil(t, loaded.PreviousResults)
	assert.Equal(t, "Kitchen & Cooking", loaded.PreviousResults.Categories[0].DisplayName)
	assert.Equal(t, "mom", loaded.Context.Recipient)

	require.NoError(t, store.Delete(ctx, "conv-1"))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_SaveIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	state := sampleState()
	require.NoError(t, store.Save(ctx, "conv-1", state))

	state.PreferredCategories = append(state.PreferredCategories, "travel")

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen"}, loaded.PreferredCategories)
}

// ==========================================
// RedisStore
// ==========================================

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_RoundTripWithTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t, time.Hour)

	require.NoError(t, store.Save(ctx, "conv-1", sampleState()))
	assert.True(t, mr.Exists(StateKey("conv-1")))
	assert.Equal(t, time.Hour, mr.TTL(StateKey("conv-1")))

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen"}, loaded.PreferredCategories)
	require.Len(t, loaded.Interactions, 1)
	assert.Equal(t, models.ActionExpanded, loaded.Interactions[0].Action)

	require.NoError(t, store.Delete(ctx, "conv-1"))
	assert.False(t, mr.Exists(StateKey("conv-1")))
}

func TestRedisStore_MissingIsFresh(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Minute)

	state, err := store.Load(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, state.Interactions)
	assert.Nil(t, state.PreviousResults)
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	store, mr := newMiniredisStore(t, time.Minute)
	require.NoError(t, mr.Set(StateKey("conv-1"), "{not json"))

	_, err := store.Load(context.Background(), "conv-1")
	assert.Error(t, err)
}

func TestRedisStore_Errors(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, time.Minute)

	mock.ExpectGet(StateKey("conv-1")).SetErr(errors.New("connection refused"))
	_, err := store.Load(ctx, "conv-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	state := NewState()
	data, err := json.Marshal(state)
	require.NoError(t, err)
	mock.ExpectSet(StateKey("conv-1"), data, time.Minute).SetErr(errors.New("READONLY"))
	err = store.Save(ctx, "conv-1", state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READONLY")

	assert.NoError(t, mock.ExpectationsWereMet())
}
