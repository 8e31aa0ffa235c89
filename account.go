package rag

import (
	"fmt"
	"strings"
	"time"
)

// Credentials identifies a user for login and registration.
type Credentials struct {
	Username string
	Password string
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("username must not be empty: %w", ErrValidation)
	}
	if c.Password == "" {
		return fmt.Errorf("password must not be empty: %w", ErrValidation)
	}
	return nil
}

// Login is the result of a successful login.
type Login struct {
	Token   string
	IsAdmin bool
	JTI     string
}

// User is an account as listed by the admin API.
type User struct {
	ID        int
	Username  string
	IsAdmin   bool
	IsActive  bool
	CreatedAt time.Time
}

// RevokedToken is an entry in the backend's token revocation list.
type RevokedToken struct {
	ID        int
	JTI       string
	RevokedAt time.Time
	RevokedBy string
}

// Claims are the bearer token claims the client displays. They are read
// without verification and must never be used for authorization.
type Claims struct {
	Subject   string
	IsAdmin   bool
	JTI       string
	ExpiresAt time.Time // zero when the token has no exp claim
}

// Expired reports whether the claims carry an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request is sent without an Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

// Token returns t.
func (t StaticToken) Token() string { return string(t) }

// TokenStore persists the single bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}
