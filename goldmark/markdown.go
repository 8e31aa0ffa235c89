// Package goldmark renders answer markdown to ANSI-styled terminal text
// using goldmark for parsing and lipgloss for styling.
package goldmark

import (
	"github.com/fwojciec/rag"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const defaultWidth = 80

// Renderer turns markdown into styled terminal output. A Renderer is safe
// for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	styles styles
}

// New returns a Renderer that styles output with theme. Tables,
// strikethrough and bare URLs are recognized in addition to CommonMark.
func New(theme rag.Theme) *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
		)),
		styles: newStyles(theme),
	}
}

// Render returns source rendered for a terminal width columns wide.
// Paragraphs, list items and quotes are wrapped to width. Code blocks keep
// their lines as written.
func (r *Renderer) Render(source string, width int) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return r.render([]byte(source), width)
}

// Render is a convenience for New(theme).Render(source, width).
func Render(source string, width int, theme rag.Theme) string {
	return New(theme).Render(source, width)
}
