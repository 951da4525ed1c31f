package session

import (
	"context"
	"sync"
)

// MemoryStore is the default single-process session store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]State)}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	copied := State{Name: state.Name}
	if state.Data != nil {
		copied.Data = make(map[string]string, len(state.Data))
		for k, v := range state.Data {
			copied.Data[k] = v
		}
	}
	return &copied, nil
}

func (s *MemoryStore) Set(ctx context.Context, userID int64, state *State) error {
	stored := State{Name: state.Name}
	if state.Data != nil {
		stored.Data = make(map[string]string, len(state.Data))
		for k, v := range state.Data {
			stored.Data[k] = v
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = stored
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}
