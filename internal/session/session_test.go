package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmarket/internal/infrastructure/credentials"
	"campusmarket/internal/store"
)

func signedToken(t *testing.T, username string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestEstablishPersistsCredential(t *testing.T) {
	creds := credentials.NewMemoryStore(time.Hour)
	m := NewManager("http://backend", creds, time.Hour)

	ctx := context.Background()
	s := m.Create(ctx)
	s.Establish(ctx, "abc123", "alice")

	state := s.Auth.Snapshot()
	assert.True(t, state.IsAuthenticated())
	assert.Equal(t, "abc123", s.Client.Token())

	stored, err := creds.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", stored)
}

func TestGetOrCreateRestoresPersistedCredential(t *testing.T) {
	creds := credentials.NewMemoryStore(time.Hour)
	m := NewManager("http://backend", creds, time.Hour)
	ctx := context.Background()

	token := signedToken(t, "alice", time.Hour)
	require.NoError(t, creds.Save(ctx, "returning-browser", token))

	s := m.GetOrCreate(ctx, "returning-browser")
	state := s.Auth.Snapshot()
	assert.True(t, state.IsAuthenticated())
	assert.Equal(t, "alice", state.User.Username)
	assert.Equal(t, token, s.Client.Token())
}

func TestExpiredPersistedCredentialDropped(t *testing.T) {
	creds := credentials.NewMemoryStore(time.Hour)
	m := NewManager("http://backend", creds, time.Hour)
	ctx := context.Background()

	token := signedToken(t, "alice", -time.Minute)
	require.NoError(t, creds.Save(ctx, "stale-browser", token))

	s := m.GetOrCreate(ctx, "stale-browser")
	assert.Equal(t, store.PhaseAnonymous, s.Auth.Snapshot().Phase)

	stored, err := creds.Load(ctx, "stale-browser")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestForcedLogoutOn401FromAnyEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	creds := credentials.NewMemoryStore(time.Hour)
	m := NewManager(server.URL, creds, time.Hour)
	ctx := context.Background()

	s := m.Create(ctx)
	s.Establish(ctx, "revoked-token", "alice")

	_, err := s.Client.UnreadCount(ctx)
	require.Error(t, err)

	state := s.Auth.Snapshot()
	assert.Equal(t, store.PhaseAnonymous, state.Phase)
	assert.Empty(t, state.Token)
	assert.Nil(t, state.User)
	assert.Empty(t, s.Client.Token())

	stored, err := creds.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, stored, "forced logout must clear the persisted credential")
}

func TestCleanupDropsIdleSessions(t *testing.T) {
	creds := credentials.NewMemoryStore(time.Hour)
	m := NewManager("http://backend", creds, time.Nanosecond)
	ctx := context.Background()

	s := m.Create(ctx)
	time.Sleep(time.Millisecond)
	m.Cleanup()

	m.mu.RLock()
	_, ok := m.sessions[s.ID]
	m.mu.RUnlock()
	assert.False(t, ok)
}
