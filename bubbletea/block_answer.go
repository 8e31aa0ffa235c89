package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rag/goldmark"
)

var _ Block = (*AnswerBlock)(nil)

const fence = "```"

// AnswerBlock renders a streamed answer as markdown. The prefix that ends
// at the last paragraph break outside a code fence is stable: it is
// rendered once per width and cached. Only the text after it is rendered
// again as chunks arrive.
type AnswerBlock struct {
	raw      strings.Builder
	renderer *goldmark.Renderer

	stable string         // raw text up to the last safe paragraph break
	cache  map[int]string // stable rendered, keyed by width
}

// NewAnswerBlock creates an empty AnswerBlock.
func NewAnswerBlock(renderer *goldmark.Renderer) *AnswerBlock {
	return &AnswerBlock{renderer: renderer, cache: make(map[int]string)}
}

// Append adds a chunk of answer text.
func (b *AnswerBlock) Append(text string) {
	b.raw.WriteString(text)
	b.advance()
}

// Text returns the answer received so far.
func (b *AnswerBlock) Text() string { return b.raw.String() }

func (b *AnswerBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	head := b.renderStable(width)
	tail := strings.TrimPrefix(b.raw.String(), b.stable)
	tail = strings.TrimLeft(tail, "\n")
	if openFence(tail) {
		// Close the fence for display while the block is still streaming.
		tail += "\n" + fence
	}
	var rendered string
	if strings.TrimSpace(tail) != "" {
		rendered = b.renderer.Render(tail, width)
	}
	switch {
	case strings.TrimSpace(rendered) == "":
		return head
	case head == "":
		return rendered
	default:
		return strings.TrimRight(head, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
	}
}

// advance moves the stable prefix forward to the last "\n\n" whose prefix
// has balanced code fences.
func (b *AnswerBlock) advance() {
	raw := b.raw.String()
	end := len(raw)
	for {
		i := strings.LastIndex(raw[:end], "\n\n")
		if i <= len(b.stable) {
			return
		}
		if prefix := raw[:i]; !openFence(prefix) {
			b.stable = prefix
			clear(b.cache)
			return
		}
		end = i
	}
}

func (b *AnswerBlock) renderStable(width int) string {
	if width <= 0 || b.stable == "" {
		return ""
	}
	if out, ok := b.cache[width]; ok {
		return out
	}
	out := b.renderer.Render(b.stable, width)
	b.cache[width] = out
	return out
}

// openFence reports whether s leaves a fenced code block open. Triple
// backticks inside inline code are counted too.
func openFence(s string) bool {
	return strings.Count(s, fence)%2 == 1
}
