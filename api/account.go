package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fwojciec/rag"
)

// Register creates an account.
func (c *Client) Register(ctx context.Context, creds rag.Credentials) error {
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return c.do(ctx, http.MethodPost, registerPath, apiCredentials(creds), nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds rag.Credentials) (rag.Login, error) {
	if err := creds.Validate(); err != nil {
		return rag.Login{}, fmt.Errorf("api: %w", err)
	}
	var res apiLogin
	if err := c.do(ctx, http.MethodPost, loginPath, apiCredentials(creds), &res); err != nil {
		return rag.Login{}, err
	}
	if res.Token == "" {
		return rag.Login{}, fmt.Errorf("api: login response carried no token")
	}
	return rag.Login{Token: res.Token, IsAdmin: bool(res.IsAdmin), JTI: res.JTI}, nil
}
