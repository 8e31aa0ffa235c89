package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rag"
	"github.com/fwojciec/rag/goldmark"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the question-answering TUI.
type Model struct {
	// Input is the question input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript. Exported for test access.
	Viewport viewport.Model

	asker    rag.Asker
	cfg      Config
	styles   Styles
	renderer *goldmark.Renderer

	blocks     []Block
	blockFocus int // index of the focused ContextsBlock (-1 = none)

	// answer receives chunks for the in-flight question. It is created on
	// the first chunk so a failed ask leaves no empty answer behind.
	answer *AnswerBlock

	running   bool
	cancelled bool
	cancel    context.CancelFunc
	eventCh   chan rag.Event
	err       error
	ready     bool
}

// New creates a new TUI Model that answers questions with asker.
func New(asker rag.Asker, theme rag.Theme, cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about your documents..."
	ti.Prompt = "❯ "
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:      ti,
		asker:      asker,
		cfg:        cfg,
		styles:     NewStyles(theme),
		renderer:   goldmark.New(theme),
		blockFocus: -1,
	}
}

// Running returns whether a question is being answered.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last ask, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		// Events still queued when the user cancelled are drained unseen.
		if !m.cancelled {
			m = m.processEvent(msg.Event)
			m.Viewport.SetContent(m.renderContent())
			m.Viewport.GotoBottom()
		}
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh)
		}
		return m, nil

	case AskDoneMsg:
		if m.cancel != nil {
			m.cancel()
		}
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.answer = nil
		m = m.updateBlockFocus()
		m.Viewport.SetContent(m.renderContent())
		return m, m.Input.Focus()
	}

	// Viewport always receives remaining messages for mouse scrolling.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputHeight-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			return m.cancelAsk(), nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.running {
			return m.cancelAsk(), nil
		}
		return m, nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		question := strings.TrimSpace(m.Input.Value())
		if question == "" {
			return m, nil
		}
		return m.submit(question)

	case tea.KeyTab:
		if !m.running && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.running {
			m = m.cycleFocusPrev()
		}
		return m, nil
	}

	// Character keys go to the input only, since j/k are also viewport
	// scroll keys.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd
		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// While answering, navigation keys still scroll.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m Model) cancelAsk() Model {
	if m.cancel != nil {
		m.cancel()
	}
	m.cancelled = true
	return m
}

func (m Model) submit(question string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil
	m.cancelled = false
	m.answer = nil

	m.blocks = append(m.blocks, NewQuestionBlock(question, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan rag.Event, 256)
	m.running = true

	req := m.cfg.Ask.AskDefaults(question)
	return m, tea.Batch(
		startAsk(ctx, m.asker, req, m.eventCh),
		listenForEvent(m.eventCh),
	)
}

func (m Model) renderContent() string {
	var b strings.Builder
	var prev Block
	for _, block := range m.blocks {
		if prev != nil {
			b.WriteString(blockSeparator(prev, block))
		}
		b.WriteString(block.View(m.Viewport.Width))
		prev = block
	}
	return b.String()
}

// processEvent routes a streaming event to the blocks of the current
// exchange.
func (m Model) processEvent(evt rag.Event) Model {
	switch e := evt.(type) {
	case rag.EventContexts:
		m.blocks = append(m.blocks, NewContextsBlock(e.Contexts, m.styles))
		m = m.updateBlockFocus()
	case rag.EventChunk:
		if m.answer == nil {
			m.answer = NewAnswerBlock(m.renderer)
			m.blocks = append(m.blocks, m.answer)
		}
		m.answer.Append(e.Text)
	case rag.EventEnd:
		m.answer = nil
	case rag.EventError:
		m.blocks = append(m.blocks, NewErrorBlock(e.Message, m.styles))
		m.err = e.Err
		if m.err == nil {
			m.err = errors.New(e.Message)
		}
		m.answer = nil
	}
	return m
}

// updateBlockFocus focuses the last ContextsBlock.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if _, ok := m.blocks[i].(*ContextsBlock); ok {
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves blockFocus to the previous ContextsBlock, wrapping around.
func (m Model) cycleFocusPrev() Model {
	if len(m.blocks) == 0 {
		return m
	}
	start := m.blockFocus - 1
	if start < 0 {
		start = len(m.blocks) - 1
	}
	for i := range len(m.blocks) {
		idx := (start - i + len(m.blocks)) % len(m.blocks)
		if _, ok := m.blocks[idx].(*ContextsBlock); ok {
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	switch {
	case m.running && m.cancelled:
		return m.styles.Muted.Render("Cancelling...")
	case m.running:
		return m.styles.Muted.Render("Answering... Ctrl+C to cancel")
	case m.err != nil:
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var parts []string
	if m.cancelled {
		parts = append(parts, "Cancelled.")
	}
	parts = append(parts, "Enter to ask")
	if m.blockFocus >= 0 {
		parts = append(parts, "Tab toggles references")
	}
	parts = append(parts, "Ctrl+C to quit")
	status := m.styles.Muted.Render(strings.Join(parts, " · "))

	switch {
	case m.cfg.User == "":
		status += m.styles.Muted.Render(" · not signed in")
	case m.cfg.IsAdmin:
		status += m.styles.Muted.Render(" · "+m.cfg.User) + " " + m.styles.Accent.Render("[admin]")
	default:
		status += m.styles.Muted.Render(" · " + m.cfg.User)
	}
	return status
}

// startAsk runs the ask in a goroutine and closes ch when it returns.
func startAsk(ctx context.Context, asker rag.Asker, req rag.AskRequest, ch chan<- rag.Event) tea.Cmd {
	return func() tea.Msg {
		asker.Ask(ctx, req, func(e rag.Event) {
			select {
			case ch <- e:
			case <-ctx.Done():
			}
		})
		close(ch)
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the
// channel closes it returns AskDoneMsg.
func listenForEvent(ch <-chan rag.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return AskDoneMsg{}
		}
		return StreamEventMsg{Event: evt}
	}
}
