package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/rag"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var _ Block = (*ContextsBlock)(nil)

// maxSnippet is the number of grapheme clusters of passage content shown
// under each source.
const maxSnippet = 200

// ContextsBlock lists the passages an answer is grounded on. Expanded, it
// shows a content snippet under each source; collapsed, only the sources.
type ContextsBlock struct {
	items     []rag.ContextItem
	collapsed bool
	styles    Styles
}

// NewContextsBlock creates an expanded ContextsBlock.
func NewContextsBlock(items []rag.ContextItem, styles Styles) *ContextsBlock {
	return &ContextsBlock{items: items, styles: styles}
}

// Len returns the number of passages.
func (b *ContextsBlock) Len() int { return len(b.items) }

func (b *ContextsBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ContextsBlock) View(width int) string {
	indicator := "▼"
	if b.collapsed {
		indicator = "▶"
	}
	lines := []string{b.styles.Accent.Render(fmt.Sprintf("%s References (%d)", indicator, len(b.items)))}
	if len(b.items) == 0 {
		return lines[0]
	}

	snippetStyle := b.styles.Snippet.PaddingLeft(4).Width(max(width, 8))
	for i, item := range b.items {
		lines = append(lines, b.sourceLine(i, item, width))
		if b.collapsed || item.Content == "" {
			continue
		}
		lines = append(lines, snippetStyle.Render(Snippet(item.Content)))
	}
	return strings.Join(lines, "\n")
}

// sourceLine renders "  [n] source  87.5%", truncating the source so the
// score stays on the line.
func (b *ContextsBlock) sourceLine(i int, item rag.ContextItem, width int) string {
	label := fmt.Sprintf("  [%d] ", i+1)
	score := fmt.Sprintf("%.1f%%", item.Score*100)
	room := width - runewidth.StringWidth(label) - runewidth.StringWidth(score) - 2
	source := item.Source
	if source == "" {
		source = "(unknown source)"
	}
	if room > 0 {
		source = runewidth.Truncate(source, room, "…")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		b.styles.Muted.Render(label),
		b.styles.Source.Render(source),
		"  ",
		b.styles.Score.Render(score),
	)
}

// Snippet collapses whitespace in content and caps it at 200 grapheme
// clusters, appending "..." when it was cut.
func Snippet(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if uniseg.GraphemeClusterCount(content) <= maxSnippet {
		return content
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(content)
	for n := 0; n < maxSnippet && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return b.String() + "..."
}
