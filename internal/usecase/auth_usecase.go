package usecase

import (
	"context"
	"strings"

	"campusmarket/internal/infrastructure/backend"
	"campusmarket/internal/session"
	"campusmarket/internal/store"
	apperrors "campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
)

type AuthUseCase struct{}

func NewAuthUseCase() *AuthUseCase {
	return &AuthUseCase{}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (uc *AuthUseCase) Register(ctx context.Context, sess *session.Session, input RegisterInput) error {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(input.Username) == "" {
		fieldErrs["username"] = "Username is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		fieldErrs["email"] = "Email is required"
	}
	if len(input.Password) < 6 {
		fieldErrs["password"] = "Password must be at least 6 characters"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	return sess.Client.Register(ctx, backend.RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
}

// Login runs the anonymous → authenticating → authenticated/auth-error
// transition and persists the credential on success.
func (uc *AuthUseCase) Login(ctx context.Context, sess *session.Session, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return FieldErrors{"username": "Username and password are required"}
	}

	sess.Auth.Dispatch(store.LoginStarted{})

	result, err := sess.Client.Login(ctx, username, password)
	if err != nil {
		sess.Auth.Dispatch(store.LoginFailed{Message: apperrors.AsAppError(err).Message})
		return err
	}

	sess.Establish(ctx, result.Token, result.Username)
	logger.Info("session %s: user %s logged in", sess.ID, result.Username)
	return nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, sess *session.Session) {
	sess.Logout(ctx)
}
