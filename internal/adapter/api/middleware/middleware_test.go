package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmarket/internal/infrastructure/credentials"
	"campusmarket/internal/session"
)

func newTestManager() *session.Manager {
	return session.NewManager("http://backend.invalid", credentials.NewMemoryStore(time.Hour), time.Hour)
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAttachCreatesSessionAndSetsCookie(t *testing.T) {
	e := echo.New()
	m := NewSessionMiddleware(newTestManager(), false, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *session.Session
	err := m.Attach(func(c echo.Context) error {
		got = CurrentSession(c)
		return okHandler(c)
	})(c)
	require.NoError(t, err)
	require.NotNil(t, got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, got.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAttachReusesSessionFromCookie(t *testing.T) {
	e := echo.New()
	manager := newTestManager()
	m := NewSessionMiddleware(manager, false, time.Hour)

	existing := manager.Create(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: existing.ID})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *session.Session
	err := m.Attach(func(c echo.Context) error {
		got = CurrentSession(c)
		return okHandler(c)
	})(c)
	require.NoError(t, err)
	assert.Same(t, existing, got)
	assert.Empty(t, rec.Result().Cookies(), "a known session must not be re-issued a cookie")
}

func TestRequireAuthRedirectsAnonymousPages(t *testing.T) {
	e := echo.New()
	manager := newTestManager()
	sessionMW := NewSessionMiddleware(manager, false, time.Hour)
	authMW := NewAuthMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := sessionMW.Attach(authMW.RequireAuth(okHandler))(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=/profile", rec.Header().Get("Location"))
}

func TestRequireAuthReturns401ForJSON(t *testing.T) {
	e := echo.New()
	manager := newTestManager()
	sessionMW := NewSessionMiddleware(manager, false, time.Hour)
	authMW := NewAuthMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/unread", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := sessionMW.Attach(authMW.RequireAuth(okHandler))(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	e := echo.New()
	manager := newTestManager()
	sessionMW := NewSessionMiddleware(manager, false, time.Hour)
	authMW := NewAuthMiddleware()

	existing := manager.Create(context.Background())
	existing.Establish(context.Background(), "abc123", "alice")

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: existing.ID})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := sessionMW.Attach(authMW.RequireAuth(okHandler))(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
