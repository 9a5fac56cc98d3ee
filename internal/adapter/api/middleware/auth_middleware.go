package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "campusmarket/pkg/errors"
	"campusmarket/pkg/response"
)

type AuthMiddleware struct{}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

// RequireAuth gates pages and actions behind a logged-in session. Browsers
// navigating to a page get the login redirect; JSON callers get the plain
// 401 and handle it themselves.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := CurrentSession(c)
		if sess.Auth.Snapshot().IsAuthenticated() {
			return next(c)
		}

		if wantsJSON(c) {
			return response.Error(c, apperrors.Unauthorized("Login required", nil))
		}
		return c.Redirect(http.StatusSeeOther, "/login?next="+c.Request().URL.Path)
	}
}

func wantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.Request().Header.Get("Accept"), "application/json")
}
