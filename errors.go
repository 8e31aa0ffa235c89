package rag

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed client-side validation.
	ErrValidation = errors.New("validation error")

	// ErrEndpointUnavailable indicates the streaming endpoint returned 404.
	// The consumer recovers from it by falling back to the non-streaming call.
	ErrEndpointUnavailable = errors.New("streaming endpoint unavailable")

	// ErrTransport indicates a network-level failure before any response
	// byte was received.
	ErrTransport = errors.New("transport failure")

	// ErrMidStream indicates the transport failed after streaming began.
	ErrMidStream = errors.New("stream interrupted")

	// ErrFrameParse indicates a single event frame could not be decoded.
	ErrFrameParse = errors.New("malformed frame")

	// ErrFallback indicates the non-streaming fallback request failed.
	ErrFallback = errors.New("fallback request failed")

	// ErrServer indicates the backend reported an error inside the stream.
	ErrServer = errors.New("server error")

	// ErrUnauthorized indicates the backend rejected the credentials (401/403).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the backend could not find the resource (404).
	ErrNotFound = errors.New("not found")
)
