// Package bubbletea provides a Bubble Tea TUI for asking the RAG backend
// questions and reading streamed answers.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rag"
)

// Config carries the settings the TUI needs beyond the Asker.
type Config struct {
	// Ask supplies the retrieval parameters sent with every question.
	Ask rag.Config
	// User is the signed-in username shown in the status line. Empty when
	// no token is stored.
	User string
	// IsAdmin marks the status line for admin accounts.
	IsAdmin bool
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event rag.Event
}

// AskDoneMsg signals that the in-flight ask has returned.
type AskDoneMsg struct{}
