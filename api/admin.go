package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/rag"
)

// Users lists all accounts. Requires an admin token.
func (c *Client) Users(ctx context.Context) ([]rag.User, error) {
	var res struct {
		Users []apiUser `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, adminUsersPath, nil, &res); err != nil {
		return nil, err
	}
	users := make([]rag.User, len(res.Users))
	for i, u := range res.Users {
		users[i] = rag.User{
			ID:        u.ID,
			Username:  u.Username,
			IsAdmin:   bool(u.IsAdmin),
			IsActive:  bool(u.IsActive),
			CreatedAt: u.CreatedAt.Time(),
		}
	}
	return users, nil
}

// Promote grants admin rights to username.
func (c *Client) Promote(ctx context.Context, username string) error {
	return c.userAction(ctx, username, "promote")
}

// Demote revokes admin rights. The backend refuses to demote the last admin.
func (c *Client) Demote(ctx context.Context, username string) error {
	return c.userAction(ctx, username, "demote")
}

// Freeze deactivates an account.
func (c *Client) Freeze(ctx context.Context, username string) error {
	return c.userAction(ctx, username, "freeze")
}

// Unfreeze reactivates an account.
func (c *Client) Unfreeze(ctx context.Context, username string) error {
	return c.userAction(ctx, username, "unfreeze")
}

// DeleteUser removes an account. The backend refuses to delete the last admin.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	path, err := userPath(username)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) userAction(ctx context.Context, username, action string) error {
	path, err := userPath(username)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path+"/"+action, nil, nil)
}

func userPath(username string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", fmt.Errorf("api: username must not be empty: %w", rag.ErrValidation)
	}
	return adminUsersPath + "/" + url.PathEscape(username), nil
}

// RevokeToken adds a token to the revocation list. ref is either a token
// id (jti) or a complete bearer token. Returns the revoked jti.
func (c *Client) RevokeToken(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("api: token or jti must not be empty: %w", rag.ErrValidation)
	}
	body := map[string]string{"jti": ref}
	if looksLikeJWT(ref) {
		body = map[string]string{"token": ref}
	}
	var res struct {
		JTI string `json:"jti"`
	}
	if err := c.do(ctx, http.MethodPost, adminRevokePath, body, &res); err != nil {
		return "", err
	}
	return res.JTI, nil
}

// RevokedTokens lists revoked tokens, most recent first.
func (c *Client) RevokedTokens(ctx context.Context) ([]rag.RevokedToken, error) {
	var res struct {
		Revoked []apiRevoked `json:"revoked"`
	}
	if err := c.do(ctx, http.MethodGet, adminTokensPath, nil, &res); err != nil {
		return nil, err
	}
	out := make([]rag.RevokedToken, len(res.Revoked))
	for i, r := range res.Revoked {
		out[i] = rag.RevokedToken{ID: r.ID, JTI: r.JTI, RevokedAt: r.RevokedAt.Time(), RevokedBy: r.RevokedBy}
	}
	return out, nil
}

func looksLikeJWT(s string) bool {
	return strings.Count(s, ".") == 2
}
