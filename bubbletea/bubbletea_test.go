package bubbletea_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rag"
	bt "github.com/fwojciec/rag/bubbletea"
	"github.com/fwojciec/rag/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() bt.Config {
	return bt.Config{Ask: rag.DefaultConfig()}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, asker rag.Asker) bt.Model {
	t.Helper()
	return initModelWithSize(t, asker, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, asker rag.Asker, width, height int) bt.Model {
	t.Helper()
	m := bt.New(asker, rag.DefaultTheme(), testConfig())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// submit types question into the input and presses Enter.
func submit(t *testing.T, m bt.Model, question string) (bt.Model, tea.Cmd) {
	t.Helper()
	m.Input.SetValue(question)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

func event(evt rag.Event) bt.StreamEventMsg {
	return bt.StreamEventMsg{Event: evt}
}

var nopAsker = mock.Replay()
