package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"campusmarket/internal/session"
	"campusmarket/internal/usecase"
	apperrors "campusmarket/pkg/errors"
)

// Nav is the shared chrome on every page: login state and the unread badge.
type Nav struct {
	LoggedIn bool
	Username string
	Unread   int64
}

func navFor(sess *session.Session) Nav {
	auth := sess.Auth.Snapshot()
	nav := Nav{LoggedIn: auth.IsAuthenticated()}
	if auth.User != nil {
		nav.Username = auth.User.Username
	}
	nav.Unread = sess.Messages.Snapshot().UnreadCount
	return nav
}

type errorView struct {
	Nav     Nav
	Status  int
	Message string
}

func renderError(c echo.Context, sess *session.Session, err error) error {
	appErr := apperrors.AsAppError(err)
	return c.Render(appErr.Status, "error", errorView{
		Nav:     navFor(sess),
		Status:  appErr.Status,
		Message: appErr.Message,
	})
}

// fieldErrorsFrom flattens validator errors into per-field messages the
// form templates can place next to each input.
func fieldErrorsFrom(err error) usecase.FieldErrors {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fieldErrs := usecase.FieldErrors{}
	for _, fe := range validationErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fieldErrs[field] = field + " is required"
		case "email":
			fieldErrs[field] = field + " must be a valid email address"
		case "min":
			fieldErrs[field] = field + " must be at least " + fe.Param() + " characters"
		case "gt":
			fieldErrs[field] = field + " must be greater than " + fe.Param()
		default:
			fieldErrs[field] = field + " is invalid"
		}
	}
	return fieldErrs
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if len(next) < 2 || next[0] != '/' || next[1] == '/' {
		return "/"
	}
	return next
}
