package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"gifting-workers/internal/models"
)

// Store persists conversation state by conversation ID. Load returns a fresh
// State when the conversation is unknown.
type Store interface {
	Load(ctx context.Context, conversationID string) (*State, error)
	Save(ctx context.Context, conversationID string, state *State) error
	Delete(ctx context.Context, conversationID string) error
}

// MemoryStore keeps serialized states in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, conversationID string) (*State, error) {
	s.mu.RLock()
	data, ok := s.states[conversationID]
	s.mu.RUnlock()
	if !ok {
		return NewState(), nil
	}
	return decodeState(data)
}

func (s *MemoryStore) Save(_ context.Context, conversationID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode conversation state: %w", err)
	}
	s.mu.Lock()
	s.states[conversationID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, conversationID string) error {
	s.mu.Lock()
	delete(s.states, conversationID)
	s.mu.Unlock()
	return nil
}

// Len reports how many conversations are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func decodeState(data []byte) (*State, error) {
	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode conversation state: %w", err)
	}
	if state.Interactions == nil {
		state.Interactions = []models.CategoryInteraction{}
	}
	if state.PreferredCategories == nil {
		state.PreferredCategories = []string{}
	}
	return state, nil
}
