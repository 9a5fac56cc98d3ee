package backend

import (
	"context"
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Register creates a new account. The backend replies with a plain
// confirmation string, which the client discards.
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	return c.postJSON(ctx, "/auth/register", input, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}

	var result LoginResult
	if err := c.postJSON(ctx, "/auth/login", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
