package api

import (
	"errors"
	"io"

	"github.com/fwojciec/rag"
)

// ReadFrames drains r through the frame reader and returns every complete
// frame in order.
func ReadFrames(r io.Reader) ([]string, error) {
	f := newFrameReader(r)
	var frames []string
	for {
		frame, err := f.next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, frame)
	}
}

// FramePayload exports framePayload for testing.
func FramePayload(frame string) (string, bool) {
	return framePayload(frame)
}

// DecodeEvent exports decodeEvent for testing.
func DecodeEvent(payload string) (rag.Event, error) {
	return decodeEvent(payload)
}
