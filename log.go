package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/stesla/quagmire/internal/event"
	"github.com/stesla/quagmire/internal/telnet"
)

// LogHandler traces every event passing through a session's bus.
type LogHandler struct {
	zerolog.Logger
}

func (h LogHandler) Listen(_ context.Context, ev event.Event) error {
	log := h.Trace().Str("event", string(ev.Name))
	switch t := ev.Data.(type) {
	case telnet.Data:
		log.Bytes("data", []byte(t))
	case telnet.Command:
		log.Stringer("command", t)
	case []byte:
		log.Hex("data", t)
	default:
		log.Any("data", t)
	}
	log.Send()
	return nil
}

// newLogger logs to stderr unless path names a file; stdout belongs to the
// server's text.
func newLogger(level, path string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log level: %w", err)
	}
	var w io.WriteCloser = nopCloser{os.Stderr}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("log file: %w", err)
		}
		w = f
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), w, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
