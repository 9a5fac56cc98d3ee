package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"campusmarket/internal/infrastructure/backend"
	"campusmarket/internal/infrastructure/credentials"
	"campusmarket/internal/store"
	"campusmarket/pkg/logger"
)

// Session is one browser's slice of the client: its three state containers
// plus a backend client bound to its credential. Pages share data only
// through these stores.
type Session struct {
	ID       string
	Auth     *store.SessionStore
	Listings *store.ListingsStore
	Messages *store.MessagesStore
	Client   *backend.Client

	creds credentials.Store
}

func newSession(id, backendURL string, creds credentials.Store) *Session {
	s := &Session{
		ID:       id,
		Auth:     store.NewSessionStore(),
		Listings: store.NewListingsStore(),
		Messages: store.NewMessagesStore(),
		Client:   backend.NewClient(backendURL),
		creds:    creds,
	}

	// Forced logout: any 401 from any endpoint clears the session
	// centrally, regardless of which operation triggered the call.
	s.Client.OnUnauthorized(func() {
		logger.Info("session %s: credential rejected by backend, forcing logout", id)
		s.Auth.Dispatch(store.LoggedOut{})
		if err := s.creds.Clear(context.Background(), id); err != nil {
			logger.Warn("session %s: failed to clear stored credential: %v", id, err)
		}
	})

	return s
}

// Establish records a fresh login: credential into the client, the session
// store, and the persistent credential store.
func (s *Session) Establish(ctx context.Context, token, username string) {
	s.Client.SetToken(token)
	s.Auth.Dispatch(store.LoginSucceeded{Token: token, Username: username})
	if err := s.creds.Save(ctx, s.ID, token); err != nil {
		logger.Warn("session %s: failed to persist credential: %v", s.ID, err)
	}
}

// Logout clears the session explicitly.
func (s *Session) Logout(ctx context.Context) {
	s.Client.ClearToken()
	s.Auth.Dispatch(store.LoggedOut{})
	if err := s.creds.Clear(ctx, s.ID); err != nil {
		logger.Warn("session %s: failed to clear stored credential: %v", s.ID, err)
	}
}

// restore revives a persisted credential for a returning browser. The token
// is not signature-checked here (only the backend holds the secret); the
// claims are read for the username and to drop expired tokens eagerly.
func (s *Session) restore(ctx context.Context) {
	token, err := s.creds.Load(ctx, s.ID)
	if err != nil {
		logger.Warn("session %s: failed to load stored credential: %v", s.ID, err)
		return
	}
	if token == "" {
		return
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		logger.Warn("session %s: stored credential is malformed, discarding", s.ID)
		s.creds.Clear(ctx, s.ID)
		return
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		s.creds.Clear(ctx, s.ID)
		return
	}

	s.Client.SetToken(token)
	s.Auth.Dispatch(store.LoginSucceeded{Token: token, Username: claims.Subject})
}
