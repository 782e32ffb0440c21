package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "gift:conversation:"

// RedisStore keeps conversation state as JSON with a sliding TTL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func StateKey(conversationID string) string {
	return stateKeyPrefix + conversationID
}

func (s *RedisStore) Load(ctx context.Context, conversationID string) (*State, error) {
	val, err := s.client.Get(ctx, StateKey(conversationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get conversation %s: %w", conversationID, err)
	}
	return decodeState(val)
}

func (s *RedisStore) Save(ctx context.Context, conversationID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode conversation state: %w", err)
	}
	if err := s.client.Set(ctx, StateKey(conversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set conversation %s: %w", conversationID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, StateKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("redis del conversation %s: %w", conversationID, err)
	}
	return nil
}
