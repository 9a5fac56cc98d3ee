package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campusmarket/internal/domain/entity"
)

func TestLoginLifecycle(t *testing.T) {
	s := NewSessionStore()
	assert.Equal(t, PhaseAnonymous, s.Snapshot().Phase)
	assert.False(t, s.Snapshot().IsAuthenticated())

	s.Dispatch(LoginStarted{})
	assert.Equal(t, PhaseAuthenticating, s.Snapshot().Phase)

	s.Dispatch(LoginSucceeded{Token: "abc123", Username: "alice"})
	state := s.Snapshot()
	assert.True(t, state.IsAuthenticated())
	assert.Equal(t, "abc123", state.Token)
	assert.Equal(t, "alice", state.User.Username)
}

func TestLoginFailureRecordsMessage(t *testing.T) {
	s := NewSessionStore()
	s.Dispatch(LoginStarted{})
	s.Dispatch(LoginFailed{Message: "Invalid username or password"})

	state := s.Snapshot()
	assert.Equal(t, PhaseAuthError, state.Phase)
	assert.False(t, state.IsAuthenticated())
	assert.Empty(t, state.Token)
	assert.Equal(t, "Invalid username or password", state.Error)

	// The next attempt clears the recorded failure.
	s.Dispatch(LoginStarted{})
	assert.Empty(t, s.Snapshot().Error)
}

func TestLogoutClearsEverything(t *testing.T) {
	s := NewSessionStore()
	s.Dispatch(LoginSucceeded{Token: "abc123", Username: "alice"})
	s.Dispatch(UserResolved{User: entity.User{ID: 1, Username: "alice", Email: "alice@sjsu.edu"}})

	s.Dispatch(LoggedOut{})
	state := s.Snapshot()
	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.Empty(t, state.Token)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Error)
}

func TestUserResolvedIgnoredWhenAnonymous(t *testing.T) {
	s := NewSessionStore()
	s.Dispatch(UserResolved{User: entity.User{ID: 1, Username: "alice"}})
	assert.Nil(t, s.Snapshot().User)
}
