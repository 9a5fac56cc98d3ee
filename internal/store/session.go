package store

import (
	"sync"

	"campusmarket/internal/domain/entity"
)

// AuthPhase is the session lifecycle state.
type AuthPhase string

const (
	PhaseAnonymous      AuthPhase = "anonymous"
	PhaseAuthenticating AuthPhase = "authenticating"
	PhaseAuthenticated  AuthPhase = "authenticated"
	PhaseAuthError      AuthPhase = "auth-error"
)

type SessionState struct {
	Phase AuthPhase
	Token string
	User  *entity.User
	Error string
}

func (s SessionState) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated
}

type SessionAction interface{ isSessionAction() }

type LoginStarted struct{}

// LoginSucceeded carries the credential plus the only identity fact the
// login response exposes, the username. The full user is backfilled later
// via UserResolved.
type LoginSucceeded struct {
	Token    string
	Username string
}

type LoginFailed struct{ Message string }

// LoggedOut covers both the explicit logout and the centrally-triggered
// forced logout from a 401 response.
type LoggedOut struct{}

type UserResolved struct{ User entity.User }

func (LoginStarted) isSessionAction()   {}
func (LoginSucceeded) isSessionAction() {}
func (LoginFailed) isSessionAction()    {}
func (LoggedOut) isSessionAction()      {}
func (UserResolved) isSessionAction()   {}

// ReduceSession is the pure transition function for the session state.
func ReduceSession(state SessionState, action SessionAction) SessionState {
	switch a := action.(type) {
	case LoginStarted:
		state.Phase = PhaseAuthenticating
		state.Error = ""
	case LoginSucceeded:
		state.Phase = PhaseAuthenticated
		state.Token = a.Token
		state.User = &entity.User{Username: a.Username}
		state.Error = ""
	case LoginFailed:
		// The next attempt returns to authenticating; until then the
		// session is effectively anonymous with a recorded failure.
		state.Phase = PhaseAuthError
		state.Token = ""
		state.User = nil
		state.Error = a.Message
	case LoggedOut:
		state = SessionState{Phase: PhaseAnonymous}
	case UserResolved:
		if state.Phase == PhaseAuthenticated {
			user := a.User
			state.User = &user
		}
	}
	return state
}

// SessionStore holds the authentication state for one browser session.
// Mutations are atomic single-step replacements; last write wins, which is
// acceptable for a single-user single-session UI.
type SessionStore struct {
	mu    sync.Mutex
	state SessionState
}

func NewSessionStore() *SessionStore {
	return &SessionStore{state: SessionState{Phase: PhaseAnonymous}}
}

func (s *SessionStore) Dispatch(action SessionAction) {
	s.mu.Lock()
	s.state = ReduceSession(s.state, action)
	s.mu.Unlock()
}

func (s *SessionStore) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
