// Package mock provides test doubles for rag interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/rag"
)

// Interface compliance check.
var _ rag.Asker = (*Asker)(nil)

// Asker is a test double for rag.Asker.
// Set AskFn before calling Ask.
type Asker struct {
	AskFn func(ctx context.Context, req rag.AskRequest, onEvent func(rag.Event))
}

// Ask delegates to AskFn.
func (a *Asker) Ask(ctx context.Context, req rag.AskRequest, onEvent func(rag.Event)) {
	a.AskFn(ctx, req, onEvent)
}

// Replay returns an Asker that delivers events in order, stopping early
// once ctx is cancelled.
func Replay(events ...rag.Event) *Asker {
	return &Asker{
		AskFn: func(ctx context.Context, _ rag.AskRequest, onEvent func(rag.Event)) {
			for _, evt := range events {
				if ctx.Err() != nil {
					return
				}
				onEvent(evt)
			}
		},
	}
}
