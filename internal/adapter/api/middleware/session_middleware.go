package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/session"
)

const (
	sessionCookieName = "cm_session"
	sessionContextKey = "session"
)

// SessionMiddleware binds each request to its browser session via the
// session cookie, creating a fresh session for first-time visitors.
type SessionMiddleware struct {
	manager      *session.Manager
	cookieSecure bool
	cookieMaxAge time.Duration
}

func NewSessionMiddleware(manager *session.Manager, cookieSecure bool, ttl time.Duration) *SessionMiddleware {
	return &SessionMiddleware{
		manager:      manager,
		cookieSecure: cookieSecure,
		cookieMaxAge: ttl,
	}
}

func (m *SessionMiddleware) Attach(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		cookie, err := c.Cookie(sessionCookieName)
		var sess *session.Session
		if err != nil || cookie.Value == "" {
			sess = m.manager.Create(ctx)
			m.setCookie(c, sess.ID)
		} else {
			sess = m.manager.GetOrCreate(ctx, cookie.Value)
		}

		c.Set(sessionContextKey, sess)
		return next(c)
	}
}

func (m *SessionMiddleware) setCookie(c echo.Context, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(m.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentSession returns the session bound to the request. Attach must run
// before any handler that calls this.
func CurrentSession(c echo.Context) *session.Session {
	return c.Get(sessionContextKey).(*session.Session)
}
