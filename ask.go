package rag

import (
	"context"
	"fmt"
	"strings"
)

// Request defaults used by the backend when fields are omitted.
const (
	DefaultTopK       = 6
	DefaultBM25Weight = 0.35
)

// ContextItem is one retrieved passage backing an answer.
type ContextItem struct {
	Source  string
	Content string // empty when the request did not ask for content
	Score   float64
	Hash    string
}

// AskRequest carries a question and retrieval parameters.
type AskRequest struct {
	Question       string
	TopK           int     // 0 = DefaultTopK
	BM25Weight     float64 // 0 = DefaultBM25Weight
	IncludeContent bool
}

// WithDefaults returns a copy of r with zero retrieval parameters replaced
// by their defaults.
func (r AskRequest) WithDefaults() AskRequest {
	if r.TopK == 0 {
		r.TopK = DefaultTopK
	}
	if r.BM25Weight == 0 {
		r.BM25Weight = DefaultBM25Weight
	}
	return r
}

// Validate checks universal constraints on AskRequest.
func (r AskRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("question must not be empty: %w", ErrValidation)
	}
	if r.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative, got %d: %w", r.TopK, ErrValidation)
	}
	if r.BM25Weight < 0 || r.BM25Weight > 1 {
		return fmt.Errorf("bm25_weight must be in [0, 1], got %g: %w", r.BM25Weight, ErrValidation)
	}
	return nil
}

// AskResult is the consolidated answer returned by the non-streaming call.
type AskResult struct {
	Answer   string
	Contexts []ContextItem
}

// Asker answers questions by delivering events to onEvent. Ask blocks until
// a terminal event has been delivered or ctx is cancelled. After
// cancellation onEvent is not called again.
type Asker interface {
	Ask(ctx context.Context, req AskRequest, onEvent func(Event))
}

// AskerFunc adapts a function to the Asker interface.
type AskerFunc func(ctx context.Context, req AskRequest, onEvent func(Event))

// Ask calls f.
func (f AskerFunc) Ask(ctx context.Context, req AskRequest, onEvent func(Event)) {
	f(ctx, req, onEvent)
}

var _ Asker = AskerFunc(nil)
