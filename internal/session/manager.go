package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusmarket/internal/infrastructure/credentials"
)

type managedSession struct {
	session  *Session
	lastSeen time.Time
}

// Manager is the registry of live browser sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*managedSession

	backendURL string
	creds      credentials.Store
	ttl        time.Duration
}

func NewManager(backendURL string, creds credentials.Store, ttl time.Duration) *Manager {
	return &Manager{
		sessions:   make(map[string]*managedSession),
		backendURL: backendURL,
		creds:      creds,
		ttl:        ttl,
	}
}

// Create starts a session for a browser with no cookie yet.
func (m *Manager) Create(ctx context.Context) *Session {
	return m.register(ctx, uuid.NewString(), false)
}

// GetOrCreate returns the live session for a cookie, reviving it (including
// any persisted credential) if the registry no longer holds it.
func (m *Manager) GetOrCreate(ctx context.Context, id string) *Session {
	m.mu.RLock()
	managed, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		m.mu.Lock()
		managed.lastSeen = time.Now()
		m.mu.Unlock()
		return managed.session
	}

	return m.register(ctx, id, true)
}

func (m *Manager) register(ctx context.Context, id string, restore bool) *Session {
	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		existing.lastSeen = time.Now()
		m.mu.Unlock()
		return existing.session
	}

	s := newSession(id, m.backendURL, m.creds)
	m.sessions[id] = &managedSession{session: s, lastSeen: time.Now()}
	m.mu.Unlock()

	if restore {
		s.restore(ctx)
	}
	return s
}

// Cleanup drops sessions idle past the TTL.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, managed := range m.sessions {
		if now.Sub(managed.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Cleanup()
			}
		}
	}()
}
