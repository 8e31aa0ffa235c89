package rag

// Kind names the tagged variant of an Event.
type Kind string

const (
	KindContexts Kind = "contexts"
	KindChunk    Kind = "chunk"
	KindEnd      Kind = "end"
	KindError    Kind = "error"
)

// Event is a sealed interface representing one delivery from an answer
// stream. A stream delivers zero or one EventContexts, any number of
// EventChunk, and exactly one terminal event (EventEnd or EventError).
// The unexported marker method prevents external implementations.
type Event interface {
	Kind() Kind
	event()
}

// EventContexts carries the retrieval results the answer is grounded on.
type EventContexts struct {
	Contexts []ContextItem
}

func (EventContexts) Kind() Kind { return KindContexts }
func (EventContexts) event()     {}

// EventChunk carries a fragment of the answer. Fragments are appended by
// the caller; the stream never replaces previously delivered text.
type EventChunk struct {
	Text string
}

func (EventChunk) Kind() Kind { return KindChunk }
func (EventChunk) event()     {}

// EventEnd signals normal termination.
type EventEnd struct{}

func (EventEnd) Kind() Kind { return KindEnd }
func (EventEnd) event()     {}

// EventError signals abnormal termination. Message is human-readable; Err
// wraps one of the package sentinel errors so callers can use errors.Is.
type EventError struct {
	Message string
	Err     error
}

func (EventError) Kind() Kind { return KindError }
func (EventError) event()     {}

// IsTerminal reports whether evt ends a stream.
func IsTerminal(evt Event) bool {
	switch evt.(type) {
	case EventEnd, EventError:
		return true
	default:
		return false
	}
}

// Interface compliance checks.
var (
	_ Event = EventContexts{}
	_ Event = EventChunk{}
	_ Event = EventEnd{}
	_ Event = EventError{}
)
