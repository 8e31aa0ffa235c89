package goldmark_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/rag"
	"github.com/fwojciec/rag/goldmark"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestMain(m *testing.M) {
	// Force ANSI output so styled spans produce escape codes.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()

	theme := rag.DefaultTheme()

	t.Run("empty input returns empty string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", goldmark.Render("", 80, theme))
	})

	t.Run("plain paragraph", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(goldmark.Render("线性规划是一种优化方法", 80, theme)), "线性规划是一种优化方法")
	})

	t.Run("heading is styled differently from a paragraph", func(t *testing.T) {
		t.Parallel()
		heading := goldmark.Render("## 对偶理论", 80, theme)
		paragraph := goldmark.Render("对偶理论", 80, theme)
		assert.Contains(t, stripANSI(heading), "对偶理论")
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("emphasis", func(t *testing.T) {
		t.Parallel()
		for _, src := range []string{"**bold**", "*italic*", "***both***"} {
			out := goldmark.Render(src, 80, theme)
			assert.Contains(t, stripANSI(out), strings.Trim(src, "*"))
			assert.NotEqual(t, strings.Trim(src, "*"), strings.TrimSpace(out))
		}
	})

	t.Run("strikethrough", func(t *testing.T) {
		t.Parallel()
		out := goldmark.Render("~~old~~", 80, theme)
		assert.Contains(t, stripANSI(out), "old")
		assert.NotContains(t, stripANSI(out), "~~")
	})

	t.Run("inline code", func(t *testing.T) {
		t.Parallel()
		out := goldmark.Render("run `make index` first", 80, theme)
		assert.Contains(t, stripANSI(out), "make index")
		assert.NotContains(t, stripANSI(out), "`")
	})

	t.Run("fenced code block keeps lines and language", func(t *testing.T) {
		t.Parallel()
		src := "```python\nmodel.optimize(objective='max')\n```"
		out := stripANSI(goldmark.Render(src, 20, theme))
		assert.Contains(t, out, "python")
		assert.Contains(t, out, "│ model.optimize(objective='max')")
	})

	t.Run("indented code block", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("paragraph\n\n    indented code\n    more code", 80, theme))
		assert.Contains(t, out, "│ indented code")
		assert.Contains(t, out, "│ more code")
	})

	t.Run("bullet list", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("- one\n- two", 80, theme))
		assert.Contains(t, out, "• one")
		assert.Contains(t, out, "• two")
	})

	t.Run("ordered list keeps start number", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("3. third\n4. fourth", 80, theme))
		assert.Contains(t, out, "3. third")
		assert.Contains(t, out, "4. fourth")
	})

	t.Run("nested list is indented", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("- outer\n  - inner one\n  - inner two", 80, theme))
		assert.Contains(t, out, "• outer")
		assert.Contains(t, out, "  • inner one")
		assert.Contains(t, out, "  • inner two")
	})

	t.Run("list item continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- this is a very long list item that should wrap and have continuation lines properly indented"
		lines := strings.Split(stripANSI(goldmark.Render(src, 30, theme)), "\n")
		require.Greater(t, len(lines), 1)
		assert.True(t, strings.HasPrefix(lines[0], "• "))
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				assert.True(t, strings.HasPrefix(line, "  "), "continuation line should be indented: %q", line)
			}
		}
	})

	t.Run("blockquote lines carry a bar", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("> 引用的段落", 80, theme))
		assert.Contains(t, out, "▍ 引用的段落")
	})

	t.Run("link shows text and URL", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("[docs](https://example.com/lp)", 80, theme))
		assert.Contains(t, out, "docs")
		assert.Contains(t, out, "(https://example.com/lp)")
	})

	t.Run("bare URL is linkified", func(t *testing.T) {
		t.Parallel()
		out := goldmark.Render("see https://example.com/a now", 80, theme)
		assert.Contains(t, stripANSI(out), "https://example.com/a")
		assert.NotEqual(t, stripANSI(out), out)
	})

	t.Run("image renders alt text and URL", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("![alt text](https://example.com/img.png)", 80, theme))
		assert.Contains(t, out, "alt text")
		assert.Contains(t, out, "example.com/img.png")
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("above\n\n---\n\nbelow", 80, theme))
		assert.Contains(t, out, "above")
		assert.Contains(t, out, "───")
		assert.Contains(t, out, "below")
	})

	t.Run("paragraphs are separated by a blank line", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("first\n\nsecond", 80, theme))
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "first", strings.TrimSpace(lines[0]))
		assert.Empty(t, strings.TrimSpace(lines[1]))
		assert.Equal(t, "second", strings.TrimSpace(lines[2]))
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		out := stripANSI(goldmark.Render(long, 30, theme))
		lines := strings.Split(out, "\n")
		assert.Greater(t, len(lines), 1)
		for _, l := range lines {
			assert.LessOrEqual(t, lipgloss.Width(l), 30)
		}
		assert.Contains(t, out, "word12")
	})

	t.Run("width zero defaults to 80", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(goldmark.Render("hello world", 0, theme)), "hello world")
	})
}

func TestRender_Table(t *testing.T) {
	t.Parallel()

	theme := rag.DefaultTheme()

	t.Run("aligns wide characters", func(t *testing.T) {
		t.Parallel()
		src := "| 方法 | 复杂度 |\n|---|---|\n| 单纯形 | 指数 |\n| 内点法 | 多项式 |"
		out := stripANSI(goldmark.Render(src, 80, theme))
		assert.Contains(t, out, "单纯形 │ 指数")
		assert.Contains(t, out, "内点法 │ 多项式")
		assert.Contains(t, out, "─┼─")
	})

	t.Run("truncates columns wider than the terminal", func(t *testing.T) {
		t.Parallel()
		src := "| h |\n|---|\n| " + strings.Repeat("a", 40) + " |"
		out := stripANSI(goldmark.Render(src, 20, theme))
		assert.Contains(t, out, "…")
		for _, l := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(l), 20, "line %q", l)
		}
	})
}

func TestRenderer_Reuse(t *testing.T) {
	t.Parallel()

	theme := rag.DefaultTheme()
	r := goldmark.New(theme)
	src := "# 标题\n\n- a\n- b"
	assert.Equal(t, goldmark.Render(src, 40, theme), r.Render(src, 40))
	assert.Equal(t, r.Render(src, 40), r.Render(src, 40))
}
