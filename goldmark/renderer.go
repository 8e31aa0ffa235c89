package goldmark

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/rag"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const minColumn = 10

type styles struct {
	bold     lipgloss.Style
	italic   lipgloss.Style
	strike   lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	link     lipgloss.Style
	code     lipgloss.Style
	quoteBar lipgloss.Style
}

func newStyles(theme rag.Theme) styles {
	return styles{
		bold:     lipgloss.NewStyle().Bold(true),
		italic:   lipgloss.NewStyle().Italic(true),
		strike:   lipgloss.NewStyle().Strikethrough(true),
		heading:  lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		link:     lipgloss.NewStyle().Underline(true),
		code:     lipgloss.NewStyle().Bold(true).Background(ansiColor(theme.CodeBg)),
		quoteBar: lipgloss.NewStyle().Foreground(ansiColor(theme.Source)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *Renderer) render(source []byte, width int) string {
	doc := r.md.Parser().Parse(text.NewReader(source))
	w := &writer{styles: &r.styles, src: source}
	w.blocks(doc, width)
	return strings.TrimRight(w.buf.String(), "\n")
}

// writer accumulates rendered blocks. Blocks are separated by one blank
// line.
type writer struct {
	styles *styles
	src    []byte
	buf    strings.Builder
}

func (w *writer) blocks(parent ast.Node, width int) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n, width)
		if n.NextSibling() != nil {
			w.buf.WriteString("\n")
		}
	}
}

func (w *writer) block(node ast.Node, width int) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		w.line(wrap(w.inline(n), width))
	case *ast.Heading:
		w.line(wrap(w.styles.heading.Render(w.inline(n)), width))
	case *ast.FencedCodeBlock:
		if lang := string(n.Language(w.src)); lang != "" {
			w.line(w.styles.muted.Render(lang))
		}
		w.code(n)
	case *ast.CodeBlock:
		w.code(n)
	case *ast.Blockquote:
		w.quote(n, width)
	case *ast.List:
		w.list(n, width, 0)
	case *ast.ThematicBreak:
		w.line(w.styles.muted.Render(strings.Repeat("─", min(width, defaultWidth))))
	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.buf.Write(seg.Value(w.src))
		}
	case *extast.Table:
		w.table(n, width)
	default:
		w.blocks(node, width)
	}
}

func (w *writer) line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteString("\n")
}

func (w *writer) code(n ast.Node) {
	gutter := w.styles.muted.Render("│") + " "
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.line(gutter + strings.TrimRight(string(seg.Value(w.src)), "\n"))
	}
}

// quote renders the quoted blocks at a reduced width and prefixes every
// resulting line with a bar.
func (w *writer) quote(n *ast.Blockquote, width int) {
	inner := &writer{styles: w.styles, src: w.src}
	inner.blocks(n, max(width-2, minColumn))
	bar := w.styles.quoteBar.Render("▍") + " "
	for _, l := range strings.Split(strings.TrimRight(inner.buf.String(), "\n"), "\n") {
		w.line(bar + l)
	}
}

func (w *writer) list(n *ast.List, width, depth int) {
	indent := strings.Repeat("  ", depth)
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}

		var pending strings.Builder
		flush := func() {
			if pending.Len() > 0 {
				w.item(indent, marker, pending.String(), width)
				pending.Reset()
				marker = strings.Repeat(" ", lipgloss.Width(marker))
			}
		}
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				if pending.Len() > 0 {
					pending.WriteString("\n")
				}
				pending.WriteString(w.inline(in))
			case *ast.List:
				flush()
				w.list(in, width, depth+1)
			default:
				flush()
				sub := &writer{styles: w.styles, src: w.src}
				sub.block(ic, width-lipgloss.Width(indent+marker))
				pending.WriteString(strings.TrimRight(sub.buf.String(), "\n"))
			}
		}
		flush()
	}
}

// item writes one list item, indenting continuation lines under the text.
func (w *writer) item(indent, marker, content string, width int) {
	prefix := indent + marker
	lines := strings.Split(wrap(content, max(width-lipgloss.Width(prefix), minColumn)), "\n")
	pad := strings.Repeat(" ", lipgloss.Width(prefix))
	for i, l := range lines {
		if i == 0 {
			w.line(prefix + l)
		} else {
			w.line(pad + l)
		}
	}
}

// table lays out cells as plain text so column widths can be measured in
// terminal cells. Columns that do not fit are truncated.
func (w *writer) table(n *extast.Table, width int) {
	var rows [][]string
	for r := n.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, strings.TrimSpace(w.plain(c)))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	widths := make([]int, cols)
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	fitColumns(widths, width-3*(cols-1))

	sep := w.styles.muted.Render(" │ ")
	for ri, row := range rows {
		cells := make([]string, cols)
		for i := range cells {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cell = runewidth.FillRight(runewidth.Truncate(cell, widths[i], "…"), widths[i])
			if ri == 0 {
				cell = w.styles.bold.Render(cell)
			}
			cells[i] = cell
		}
		w.line(strings.TrimRight(strings.Join(cells, sep), " "))
		if ri == 0 {
			rules := make([]string, cols)
			for i, cw := range widths {
				rules[i] = strings.Repeat("─", cw)
			}
			w.line(w.styles.muted.Render(strings.Join(rules, "─┼─")))
		}
	}
}

// fitColumns shrinks the widest columns until the total fits avail.
func fitColumns(widths []int, avail int) {
	for {
		total, widest := 0, 0
		for i, cw := range widths {
			total += cw
			if cw > widths[widest] {
				widest = i
			}
		}
		if total <= avail || widths[widest] <= minColumn/2 {
			return
		}
		widths[widest]--
	}
}

// inline returns the styled inline content of node.
func (w *writer) inline(node ast.Node) string {
	var b strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		w.span(c, &b)
	}
	return b.String()
}

func (w *writer) span(node ast.Node, b *strings.Builder) {
	switch n := node.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(w.src))
		switch {
		case n.HardLineBreak():
			b.WriteByte('\n')
		case n.SoftLineBreak():
			b.WriteByte(' ')
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.Emphasis:
		if n.Level == 1 {
			b.WriteString(w.styles.italic.Render(w.inline(n)))
		} else {
			b.WriteString(w.styles.bold.Render(w.inline(n)))
		}
	case *extast.Strikethrough:
		b.WriteString(w.styles.strike.Render(w.inline(n)))
	case *ast.CodeSpan:
		b.WriteString(w.styles.code.Render(w.plain(n)))
	case *ast.Link:
		b.WriteString(w.styles.link.Render(w.inline(n)))
		b.WriteString(" " + w.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.Image:
		b.WriteString(w.styles.link.Render(w.plain(n)))
		b.WriteString(" " + w.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		b.WriteString(w.styles.link.Render(string(n.URL(w.src))))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(w.src))
		}
	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.span(c, b)
		}
	}
}

// plain returns the unstyled text of node.
func (w *writer) plain(node ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(w.src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.URL(w.src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
