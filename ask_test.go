package rag_test

import (
	"context"
	"testing"

	"github.com/fwojciec/rag"
	"github.com/stretchr/testify/assert"
)

func TestAskRequest_WithDefaults(t *testing.T) {
	t.Parallel()

	t.Run("fills zero fields", func(t *testing.T) {
		t.Parallel()
		got := rag.AskRequest{Question: "q"}.WithDefaults()
		assert.Equal(t, rag.DefaultTopK, got.TopK)
		assert.InDelta(t, rag.DefaultBM25Weight, got.BM25Weight, 1e-9)
	})

	t.Run("keeps explicit fields", func(t *testing.T) {
		t.Parallel()
		got := rag.AskRequest{Question: "q", TopK: 3, BM25Weight: 0.9, IncludeContent: true}.WithDefaults()
		assert.Equal(t, rag.AskRequest{Question: "q", TopK: 3, BM25Weight: 0.9, IncludeContent: true}, got)
	})
}

func TestAskRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     rag.AskRequest
		wantErr bool
	}{
		{"valid", rag.AskRequest{Question: "what is LP?", TopK: 6, BM25Weight: 0.35}, false},
		{"weight bounds inclusive", rag.AskRequest{Question: "q", BM25Weight: 1}, false},
		{"empty question", rag.AskRequest{}, true},
		{"whitespace question", rag.AskRequest{Question: " \t\n"}, true},
		{"negative top_k", rag.AskRequest{Question: "q", TopK: -1}, true},
		{"weight above one", rag.AskRequest{Question: "q", BM25Weight: 1.5}, true},
		{"negative weight", rag.AskRequest{Question: "q", BM25Weight: -0.1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, rag.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAskerFunc(t *testing.T) {
	t.Parallel()

	var got rag.AskRequest
	var a rag.Asker = rag.AskerFunc(func(_ context.Context, req rag.AskRequest, onEvent func(rag.Event)) {
		got = req
		onEvent(rag.EventEnd{})
	})

	var events []rag.Event
	a.Ask(context.Background(), rag.AskRequest{Question: "hi"}, func(e rag.Event) { events = append(events, e) })

	assert.Equal(t, "hi", got.Question)
	assert.Equal(t, []rag.Event{rag.EventEnd{}}, events)
}
