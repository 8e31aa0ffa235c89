package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/fwojciec/rag"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"", logrus.WarnLevel},
		{"trace", logrus.TraceLevel},
		{"DEBUG", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warning", logrus.WarnLevel},
		{" error ", logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			l, err := newLogger(io.Discard, tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := newLogger(io.Discard, "loud")
	assert.ErrorIs(t, err, rag.ErrValidation)
}

func TestNewLogger_WritesText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := newLogger(&buf, "warn")
	require.NoError(t, err)
	l.Info("hidden")
	l.WithField("path", "/ask/stream").Warn("skipping malformed frame")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, `msg="skipping malformed frame"`)
	assert.Contains(t, out, "path=/ask/stream")
}
