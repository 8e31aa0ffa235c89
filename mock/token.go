package mock

import "github.com/fwojciec/rag"

// Interface compliance checks.
var (
	_ rag.TokenSource = (*TokenSource)(nil)
	_ rag.TokenStore  = (*TokenStore)(nil)
)

// TokenSource is a test double for rag.TokenSource.
// A nil TokenFn yields the empty token.
type TokenSource struct {
	TokenFn func() string
}

// Token delegates to TokenFn.
func (s *TokenSource) Token() string {
	if s.TokenFn == nil {
		return ""
	}
	return s.TokenFn()
}

// TokenStore is a test double for rag.TokenStore.
// Set the function fields for the methods you need.
type TokenStore struct {
	LoadFn  func() (string, error)
	SaveFn  func(token string) error
	ClearFn func() error
}

// Load delegates to LoadFn.
func (s *TokenStore) Load() (string, error) {
	return s.LoadFn()
}

// Save delegates to SaveFn.
func (s *TokenStore) Save(token string) error {
	return s.SaveFn(token)
}

// Clear delegates to ClearFn.
func (s *TokenStore) Clear() error {
	return s.ClearFn()
}
