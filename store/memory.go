package store

import (
	"context"
	"sync"

	"github/itish2003/neuronova/models"
)

// MemoryStore holds transcripts for the lifetime of the process.
type MemoryStore struct {
	mu          sync.RWMutex
	transcripts map[string][]models.ChatEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transcripts: make(map[string][]models.ChatEntry),
	}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, entries ...models.ChatEntry) error {
	if sessionID == "" {
		return ErrInvalidSessionID
	}
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[sessionID] = append(s.transcripts[sessionID], entries...)
	return nil
}

// Entries returns a copy, so callers cannot rewrite stored history.
func (s *MemoryStore) Entries(_ context.Context, sessionID string) ([]models.ChatEntry, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.transcripts[sessionID]
	out := make([]models.ChatEntry, len(stored))
	copy(out, stored)
	return out, nil
}
