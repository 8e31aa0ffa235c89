package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/rag"
	"github.com/sirupsen/logrus"
)

// Ask implements [rag.Asker]. A question that is empty after trimming is a
// no-op: no request is made and no event is delivered.
//
// Every non-cancelled invocation delivers exactly one terminal event.
// Cancelling ctx aborts the transport and suppresses all further deliveries.
func (c *Client) Ask(ctx context.Context, req rag.AskRequest, onEvent func(rag.Event)) {
	if strings.TrimSpace(req.Question) == "" {
		return
	}
	d := &dispatcher{ctx: ctx, onEvent: onEvent}

	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		d.fail(fmt.Errorf("api: %w", err))
		return
	}

	c.open(ctx, req).deliver(d)
	d.finish()
}

// AskOnce calls the non-streaming endpoint and returns the consolidated result.
func (c *Client) AskOnce(ctx context.Context, req rag.AskRequest) (rag.AskResult, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return rag.AskResult{}, fmt.Errorf("api: %w", err)
	}
	var res apiAskResult
	if err := c.do(ctx, http.MethodPost, askPath, convertAskRequest(req), &res); err != nil {
		return rag.AskResult{}, err
	}
	return rag.AskResult{Answer: res.Answer, Contexts: convertContexts(res.Contexts)}, nil
}

// open issues the streaming request and resolves it into an outcome. A 404
// or a connection that cannot be established falls back to the
// non-streaming endpoint. Any other non-2xx status is a hard failure.
func (c *Client) open(ctx context.Context, req rag.AskRequest) outcome {
	httpReq, err := c.newJSONRequest(ctx, http.MethodPost, askStreamPath, convertAskRequest(req))
	if err != nil {
		return failed{err: err}
	}
	httpReq.Header.Set("Accept", eventStreamType)
	log := c.logger(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	switch {
	case err != nil && ctx.Err() != nil:
		return failed{err: ctx.Err()}
	case err != nil:
		return c.fallback(ctx, req, log, fmt.Errorf("%w: %w", rag.ErrTransport, err))
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return c.fallback(ctx, req, log, rag.ErrEndpointUnavailable)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		defer resp.Body.Close()
		log.WithField("status", resp.StatusCode).Warn("streaming request rejected")
		return failed{err: parseHTTPError(resp)}
	}
	log.WithField("status", resp.StatusCode).Debug("streaming answer")
	return streamed{body: resp.Body, log: log}
}

func (c *Client) fallback(ctx context.Context, req rag.AskRequest, log logrus.FieldLogger, cause error) outcome {
	log.WithError(cause).Info("streaming unavailable, falling back to non-streaming ask")
	res, err := c.AskOnce(ctx, req)
	if err != nil {
		return failed{err: fmt.Errorf("api: %w: %w (stream: %w)", rag.ErrFallback, err, cause)}
	}
	return resolved{result: res}
}

// outcome is the result of opening an ask: a live stream, a consolidated
// fallback result, or a failure. Each variant delivers through the same
// dispatcher so the terminal-event rules are enforced in one place.
type outcome interface {
	deliver(d *dispatcher)
}

type streamed struct {
	body io.ReadCloser
	log  logrus.FieldLogger
}

func (s streamed) deliver(d *dispatcher) {
	defer s.body.Close()
	stop := context.AfterFunc(d.ctx, func() { s.body.Close() })
	defer stop()

	frames := newFrameReader(s.body)
	sawChunk := false
	for {
		frame, err := frames.next()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), d.ctx.Err() != nil:
			case frames.read == 0:
				d.fail(fmt.Errorf("api: %w: %w", rag.ErrTransport, err))
			default:
				d.fail(fmt.Errorf("api: %w: %w", rag.ErrMidStream, err))
			}
			return
		}

		payload, ok := framePayload(frame)
		if !ok {
			continue
		}
		if payload == doneSentinel {
			return
		}
		evt, err := decodeEvent(payload)
		if err != nil {
			s.log.WithError(err).WithField("frame", truncate(payload, 120)).Warn("skipping malformed frame")
			continue
		}

		switch evt.(type) {
		case rag.EventChunk:
			sawChunk = true
		case rag.EventContexts:
			if sawChunk {
				s.log.Warn("contexts received after answer chunks")
			}
		}
		if !d.emit(evt) {
			return
		}
	}
}

type resolved struct {
	result rag.AskResult
}

func (r resolved) deliver(d *dispatcher) {
	if len(r.result.Contexts) > 0 {
		if !d.emit(rag.EventContexts{Contexts: r.result.Contexts}) {
			return
		}
	}
	if !d.emit(rag.EventChunk{Text: r.result.Answer}) {
		return
	}
	d.emit(rag.EventEnd{})
}

type failed struct {
	err error
}

func (f failed) deliver(d *dispatcher) {
	d.fail(f.err)
}

// dispatcher forwards events to the caller's handler. After a terminal
// event, or once ctx is cancelled, it drops everything.
type dispatcher struct {
	ctx     context.Context
	onEvent func(rag.Event)
	done    bool
}

// emit delivers evt and reports whether further events may follow.
func (d *dispatcher) emit(evt rag.Event) bool {
	if d.done {
		return false
	}
	if d.ctx.Err() != nil {
		d.done = true
		return false
	}
	d.done = rag.IsTerminal(evt)
	d.onEvent(evt)
	return !d.done
}

func (d *dispatcher) fail(err error) {
	d.emit(rag.EventError{Message: err.Error(), Err: err})
}

// finish ends a stream that closed without a terminal event.
func (d *dispatcher) finish() {
	d.emit(rag.EventEnd{})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
