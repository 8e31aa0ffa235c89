package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// Block is a renderable element of the transcript.
// Unlike tea.Model, View takes a width parameter so the root model
// controls layout and blocks are testable in isolation.
type Block interface {
	Update(tea.Msg) (Block, tea.Cmd)
	View(width int) string
}

// ToggleMsg tells a collapsible block to toggle its collapsed state.
// Sent by the root model when the user presses Tab on a focused block.
type ToggleMsg struct{}

// blockSeparator returns the text placed between two adjacent blocks. Each
// question after the first starts a new exchange and gets a blank line.
func blockSeparator(prev, curr Block) string {
	if _, ok := curr.(*QuestionBlock); ok && prev != nil {
		return "\n\n"
	}
	return "\n"
}
