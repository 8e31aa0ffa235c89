package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/rag"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginCommand(t *testing.T) {
	t.Parallel()

	token := signToken(t, jwt.MapClaims{"sub": "alice", "is_admin": true, "jti": "j1"})
	creds := make(chan map[string]string, 1)
	env := newTestApp(t, "", map[string]http.HandlerFunc{
		"POST /api/login": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			creds <- body
			writeJSON(`{"token":"`+token+`","is_admin":1,"jti":"j1"}`)(w, r)
		},
	})

	require.NoError(t, env.run(t, "login", "alice"))
	assert.Equal(t, "Signed in as alice (admin).\n", env.stdout.String())
	assert.Equal(t, map[string]string{"username": "alice", "password": "s3cret"}, <-creds)

	stored, err := env.app.store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	env.stdout.Reset()
	require.NoError(t, env.run(t, "whoami"))
	out := env.stdout.String()
	assert.Contains(t, out, "Username: alice")
	assert.Contains(t, out, "Role:     admin")
	assert.Contains(t, out, "Token ID: j1")
	assert.NotContains(t, out, "Expires")

	env.stdout.Reset()
	require.NoError(t, env.run(t, "logout"))
	assert.Equal(t, "Signed out.\n", env.stdout.String())
	assert.Empty(t, env.stderr.String())

	env.stdout.Reset()
	require.NoError(t, env.run(t, "whoami"))
	assert.Equal(t, "Not signed in.\n", env.stdout.String())
}

func TestLoginCommand_Validation(t *testing.T) {
	t.Parallel()

	t.Run("username required", func(t *testing.T) {
		t.Parallel()
		env := newTestApp(t, "", nil)
		assert.ErrorIs(t, env.run(t, "login"), rag.ErrValidation)
	})

	t.Run("empty password is never sent", func(t *testing.T) {
		t.Parallel()
		env := newTestApp(t, "", map[string]http.HandlerFunc{
			"POST /api/login": func(http.ResponseWriter, *http.Request) { t.Error("login must not be called") },
		})
		env.app.readPassword = func(string) (string, error) { return "", nil }
		assert.ErrorIs(t, env.run(t, "login", "alice"), rag.ErrValidation)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		t.Parallel()
		env := newTestApp(t, "", map[string]http.HandlerFunc{
			"POST /api/login": func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid_credentials"}`))
			},
		})
		assert.ErrorIs(t, env.run(t, "login", "alice"), rag.ErrUnauthorized)
		stored, err := env.app.store.Load()
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestRegisterCommand(t *testing.T) {
	t.Parallel()

	env := newTestApp(t, "", map[string]http.HandlerFunc{
		"POST /api/register": writeJSON(`{"ok":true}`),
	})
	require.NoError(t, env.run(t, "register", "bob"))
	assert.Equal(t, "Registered bob. Run \"rag login bob\" to sign in.\n", env.stdout.String())
}

func TestLogoutCommand_EnvironmentToken(t *testing.T) {
	t.Parallel()

	env := newTestApp(t, "env-token", nil)
	require.NoError(t, env.run(t, "logout"))
	assert.Contains(t, env.stderr.String(), "RAG_TOKEN is still set")
}

func TestWhoamiCommand_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signToken(t, jwt.MapClaims{"sub": "carol", "exp": now.Add(-time.Minute).Unix()})
	env := newTestApp(t, token, nil)
	env.app.now = func() time.Time { return now }

	require.NoError(t, env.run(t, "whoami"))
	out := env.stdout.String()
	assert.Contains(t, out, "Role:     user")
	assert.Contains(t, out, "(expired)")
}

func TestWhoamiCommand_Malformed(t *testing.T) {
	t.Parallel()

	env := newTestApp(t, "garbage", nil)
	assert.ErrorIs(t, env.run(t, "whoami"), rag.ErrValidation)
}

func TestReadLine(t *testing.T) {
	t.Parallel()

	got, err := readLine(strings.NewReader("pa ss\r\nrest"))
	require.NoError(t, err)
	assert.Equal(t, "pa ss", got)

	got, err = readLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)

	_, err = readLine(strings.NewReader(""))
	assert.Error(t, err)
}
