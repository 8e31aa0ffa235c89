// Package json persists the bearer token as a versioned JSON document.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/rag"
)

// Interface compliance checks.
var (
	_ rag.TokenStore  = (*TokenFile)(nil)
	_ rag.TokenSource = (*TokenFile)(nil)
)

// envelope is the v1 wire format for a persisted token.
type envelope struct {
	Version int       `json:"version"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// TokenFile stores a single bearer token at a fixed path.
type TokenFile struct {
	path string
	now  func() time.Time
}

// NewTokenFile returns a TokenFile backed by path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path, now: time.Now}
}

// Path returns the backing file path.
func (f *TokenFile) Path() string { return f.path }

// MarshalToken serializes a token in v1 envelope format.
func MarshalToken(token string, savedAt time.Time) ([]byte, error) {
	return json.MarshalIndent(envelope{Version: 1, Token: token, SavedAt: savedAt.UTC()}, "", "  ")
}

// UnmarshalToken deserializes a token from v1 envelope format.
func UnmarshalToken(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return "", fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	return env.Token, nil
}

// Load reads the stored token. A missing file yields the empty token.
func (f *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return UnmarshalToken(data)
}

// Save writes the token, creating parent directories as needed.
func (f *TokenFile) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token must not be empty: %w", rag.ErrValidation)
	}
	data, err := MarshalToken(token, f.now())
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (f *TokenFile) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// Token implements [rag.TokenSource]. An unreadable or corrupt file yields
// the empty token so requests go out unauthenticated.
func (f *TokenFile) Token() string {
	token, err := f.Load()
	if err != nil {
		return ""
	}
	return token
}
