package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/rag"
	"github.com/sirupsen/logrus"
)

// newLogger returns a text logger writing to w. An empty level means warn.
func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		l.SetLevel(logrus.TraceLevel)
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "info":
		l.SetLevel(logrus.InfoLevel)
	case "", "warn", "warning":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		return nil, fmt.Errorf("log level %q: must be trace, debug, info, warn or error: %w", level, rag.ErrValidation)
	}
	return l, nil
}
