package bubbletea_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/rag"
	bt "github.com/fwojciec/rag/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewStyles(t *testing.T) {
	t.Parallel()

	t.Run("maps theme indices to ANSI colors", func(t *testing.T) {
		t.Parallel()
		s := bt.NewStyles(rag.DefaultTheme())
		assert.Equal(t, lipgloss.Color("1"), s.Error.GetForeground())
		assert.Equal(t, lipgloss.Color("3"), s.Source.GetForeground())
		assert.Equal(t, lipgloss.Color("6"), s.Score.GetForeground())
		assert.True(t, s.Question.GetBold())
		assert.True(t, s.Muted.GetFaint())
	})

	t.Run("negative index means no color", func(t *testing.T) {
		t.Parallel()
		theme := rag.DefaultTheme()
		theme.Source = -1
		s := bt.NewStyles(theme)
		assert.Equal(t, lipgloss.NoColor{}, s.Source.GetForeground())
	})
}
