// Package tty toggles local echo on the controlling terminal.
package tty

import (
	"errors"
	"os"

	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("tty: not a terminal")

// Echoer turns local echo on or off. Close restores whatever mode the
// terminal was in when the Echoer was created.
type Echoer interface {
	SetEcho(enabled bool) error
	Close() error
}

// New returns an Echoer for f, or a no-op Echoer when f is not a terminal
// (input piped from a file, for instance).
func New(f *os.File) (Echoer, error) {
	fd := int(f.Fd())
	// Open reports ErrNotTerminal too, for callers holding a bare fd.
	if !term.IsTerminal(fd) {
		return Nop{}, nil
	}
	t, err := Open(fd)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Nop ignores every request.
type Nop struct{}

func (Nop) SetEcho(bool) error { return nil }
func (Nop) Close() error       { return nil }
