package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/rag"
	bt "github.com/fwojciec/rag/bubbletea"
	ragjwt "github.com/fwojciec/rag/jwt"
)

func runTUI(ctx context.Context, a *app) error {
	cfg := bt.Config{Ask: a.cfg}
	cfg.User, cfg.IsAdmin = a.identity()
	m := bt.New(a.client, rag.DefaultTheme(), cfg)
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// identity returns the user named by the current token. An unreadable or
// expired token counts as signed out.
func (a *app) identity() (user string, isAdmin bool) {
	token := a.token.Token()
	if token == "" {
		return "", false
	}
	claims, err := ragjwt.Peek(token)
	if err != nil {
		a.log.WithError(err).Debug("cannot read token claims")
		return "", false
	}
	if claims.Expired(a.now()) {
		a.log.WithField("expires_at", claims.ExpiresAt).Warn("stored token has expired")
		return "", false
	}
	return claims.Subject, claims.IsAdmin
}

func (a *app) ask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	noStream := fs.Bool("no-stream", false, "Use the non-streaming endpoint")
	asJSON := fs.Bool("json", false, "Print events as JSON lines")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return fmt.Errorf("ask: question must not be empty: %w", rag.ErrValidation)
	}
	req := a.cfg.AskDefaults(question)

	var p printer = &textPrinter{w: a.stdout}
	if *asJSON {
		p = &jsonPrinter{enc: json.NewEncoder(a.stdout)}
	}

	if *noStream {
		res, err := a.client.AskOnce(ctx, req)
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}
		if len(res.Contexts) > 0 {
			p.handle(rag.EventContexts{Contexts: res.Contexts})
		}
		p.handle(rag.EventChunk{Text: res.Answer})
		p.handle(rag.EventEnd{})
		return p.result()
	}

	a.client.Ask(ctx, req, p.handle)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	return p.result()
}

// printer writes answer events to the terminal.
type printer interface {
	handle(evt rag.Event)
	result() error
}

// textPrinter writes chunks as they arrive and lists the sources after the
// answer.
type textPrinter struct {
	w        io.Writer
	contexts []rag.ContextItem
	wrote    bool
	err      error
}

func (p *textPrinter) handle(evt rag.Event) {
	switch e := evt.(type) {
	case rag.EventContexts:
		p.contexts = e.Contexts
	case rag.EventChunk:
		if e.Text != "" {
			fmt.Fprint(p.w, e.Text)
			p.wrote = true
		}
	case rag.EventEnd:
		p.endLine()
		writeSources(p.w, p.contexts)
	case rag.EventError:
		p.endLine()
		p.err = eventError(e)
	}
}

func (p *textPrinter) endLine() {
	if p.wrote {
		fmt.Fprintln(p.w)
		p.wrote = false
	}
}

func (p *textPrinter) result() error { return p.err }

func writeSources(w io.Writer, items []rag.ContextItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSources:")
	for i, item := range items {
		source := item.Source
		if source == "" {
			source = "(unknown source)"
		}
		fmt.Fprintf(w, "  [%d] %s  %.1f%%\n", i+1, source, item.Score*100)
	}
}

// jsonPrinter writes one JSON object per event.
type jsonPrinter struct {
	enc *json.Encoder
	err error
}

type eventLine struct {
	Type     rag.Kind      `json:"type"`
	Text     string        `json:"text,omitempty"`
	Contexts []contextLine `json:"contexts,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type contextLine struct {
	Source  string  `json:"source"`
	Content string  `json:"content,omitempty"`
	Score   float64 `json:"score"`
	Hash    string  `json:"hash,omitempty"`
}

func (p *jsonPrinter) handle(evt rag.Event) {
	line := eventLine{Type: evt.Kind()}
	switch e := evt.(type) {
	case rag.EventContexts:
		line.Contexts = make([]contextLine, len(e.Contexts))
		for i, c := range e.Contexts {
			line.Contexts[i] = contextLine{Source: c.Source, Content: c.Content, Score: c.Score, Hash: c.Hash}
		}
	case rag.EventChunk:
		line.Text = e.Text
	case rag.EventError:
		line.Error = e.Message
		p.err = eventError(e)
	}
	if err := p.enc.Encode(line); err != nil && p.err == nil {
		p.err = fmt.Errorf("write event: %w", err)
	}
}

func (p *jsonPrinter) result() error { return p.err }

func eventError(e rag.EventError) error {
	if e.Err != nil {
		return fmt.Errorf("ask: %w", e.Err)
	}
	return fmt.Errorf("ask: %w", errors.New(e.Message))
}
