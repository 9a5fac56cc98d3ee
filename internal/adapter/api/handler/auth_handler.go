package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/middleware"
	"campusmarket/internal/usecase"
	apperrors "campusmarket/pkg/errors"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type loginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
}

type loginView struct {
	Nav        Nav
	Next       string
	Registered bool
	Error      string
	Username   string
}

type registerView struct {
	Nav         Nav
	Error       string
	FieldErrors usecase.FieldErrors
	Username    string
	Email       string
}

func (h *AuthHandler) ShowLogin(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if sess.Auth.Snapshot().IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	return c.Render(http.StatusOK, "login", loginView{
		Nav:        navFor(sess),
		Next:       c.QueryParam("next"),
		Registered: c.QueryParam("registered") == "1",
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, sess, apperrors.BadRequest("Invalid login form", err))
	}

	err := h.authUseCase.Login(c.Request().Context(), sess, req.Username, req.Password)
	if err != nil {
		return c.Render(http.StatusUnauthorized, "login", loginView{
			Nav:      navFor(sess),
			Next:     c.FormValue("next"),
			Error:    apperrors.AsAppError(err).Message,
			Username: req.Username,
		})
	}

	return c.Redirect(http.StatusSeeOther, safeNext(c.FormValue("next")))
}

func (h *AuthHandler) ShowRegister(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if sess.Auth.Snapshot().IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	return c.Render(http.StatusOK, "register", registerView{Nav: navFor(sess)})
}

func (h *AuthHandler) Register(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, sess, apperrors.BadRequest("Invalid registration form", err))
	}

	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusBadRequest, "register", registerView{
			Nav:         navFor(sess),
			FieldErrors: fieldErrorsFrom(err),
			Username:    req.Username,
			Email:       req.Email,
		})
	}

	err := h.authUseCase.Register(c.Request().Context(), sess, usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		view := registerView{
			Nav:      navFor(sess),
			Username: req.Username,
			Email:    req.Email,
		}
		var fieldErrs usecase.FieldErrors
		if errors.As(err, &fieldErrs) {
			view.FieldErrors = fieldErrs
		} else {
			view.Error = apperrors.AsAppError(err).Message
		}
		return c.Render(http.StatusBadRequest, "register", view)
	}

	return c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	h.authUseCase.Logout(c.Request().Context(), sess)
	return c.Redirect(http.StatusSeeOther, "/")
}
