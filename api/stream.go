package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/rag"
)

const (
	frameDelimiter = "\n\n"
	dataPrefix     = "data:"
	doneSentinel   = "[DONE]"
	readSize       = 4 << 10
)

// frameReader reassembles "\n\n"-delimited frames from a body whose reads
// may split a frame, or the delimiter itself, at any byte.
type frameReader struct {
	r       io.Reader
	buf     []byte
	scratch []byte
	read    int64 // total bytes received
	err     error // sticky read error, returned once buffered frames drain
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: r, scratch: make([]byte, readSize)}
}

// next returns the next complete frame without its delimiter. It returns
// io.EOF once the body is exhausted. Bytes after the last delimiter are an
// incomplete frame and are discarded.
func (f *frameReader) next() (string, error) {
	delim := []byte(frameDelimiter)
	for {
		if i := bytes.Index(f.buf, delim); i >= 0 {
			frame := string(f.buf[:i])
			f.buf = f.buf[i+len(delim):]
			return frame, nil
		}
		if f.err != nil {
			f.buf = nil
			return "", f.err
		}
		n, err := f.r.Read(f.scratch)
		f.read += int64(n)
		f.buf = append(f.buf, f.scratch[:n]...)
		if err != nil {
			f.err = err
		}
	}
}

// framePayload extracts the data carried by a frame. Multiple data lines
// are joined with a newline. Other fields and comment lines are ignored.
// ok is false when the frame has no data line.
func framePayload(frame string) (payload string, ok bool) {
	var data []string
	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if v, found := strings.CutPrefix(line, dataPrefix); found {
			data = append(data, strings.TrimSpace(v))
		}
	}
	if len(data) == 0 {
		return "", false
	}
	return strings.Join(data, "\n"), true
}

// sseEvent is the JSON object carried in a frame's data.
type sseEvent struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Detail  string          `json:"detail"`
	Message string          `json:"message"`
}

// decodeEvent maps a frame payload to a semantic event. Errors wrap
// [rag.ErrFrameParse].
func decodeEvent(payload string) (rag.Event, error) {
	var evt sseEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return nil, fmt.Errorf("%w: %w", rag.ErrFrameParse, err)
	}

	switch evt.Type {
	case "contexts":
		var items []apiContext
		if hasData(evt.Data) {
			if err := json.Unmarshal(evt.Data, &items); err != nil {
				return nil, fmt.Errorf("%w: contexts: %w", rag.ErrFrameParse, err)
			}
		}
		return rag.EventContexts{Contexts: convertContexts(items)}, nil
	case "chunk":
		if !hasData(evt.Data) {
			return nil, fmt.Errorf("%w: chunk without data", rag.ErrFrameParse)
		}
		var text string
		if err := json.Unmarshal(evt.Data, &text); err != nil {
			return nil, fmt.Errorf("%w: chunk: %w", rag.ErrFrameParse, err)
		}
		return rag.EventChunk{Text: text}, nil
	case "end":
		return rag.EventEnd{}, nil
	case "error":
		msg := serverMessage(evt)
		return rag.EventError{Message: msg, Err: fmt.Errorf("%w: %s", rag.ErrServer, msg)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", rag.ErrFrameParse, evt.Type)
	}
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func serverMessage(evt sseEvent) string {
	switch {
	case evt.Detail != "":
		return evt.Detail
	case evt.Message != "":
		return evt.Message
	}
	var s string
	if hasData(evt.Data) && json.Unmarshal(evt.Data, &s) == nil && s != "" {
		return s
	}
	return "backend reported an error"
}
