package credentials

import (
	"context"
	"sync"
	"time"
)

// Store persists the bearer credential for a browser session under a fixed
// key name, so a returning browser (or a restarted frontend, with the Redis
// implementation) stays logged in. Load returns an empty token when no
// credential is stored.
type Store interface {
	Save(ctx context.Context, sessionID, token string) error
	Load(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore is the in-process fallback used when Redis is not configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Save(ctx context.Context, sessionID, token string) error {
	s.mu.Lock()
	s.entries[sessionID] = memoryEntry{token: token, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", nil
	}
	return entry.token, nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}
