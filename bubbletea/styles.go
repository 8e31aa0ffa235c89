package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/rag"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Question lipgloss.Style
	Source   lipgloss.Style
	Score    lipgloss.Style
	Snippet  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t rag.Theme) Styles {
	return Styles{
		Question: lipgloss.NewStyle().Foreground(ansiColor(t.Question)).Bold(true),
		Source:   lipgloss.NewStyle().Foreground(ansiColor(t.Source)),
		Score:    lipgloss.NewStyle().Foreground(ansiColor(t.Score)),
		Snippet:  lipgloss.NewStyle().Foreground(ansiColor(t.Muted)),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:  lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
