//go:build linux || darwin || freebsd || netbsd || openbsd

package tty

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Terminal flips the ECHO bit of a terminal's local modes.
type Terminal struct {
	fd   int
	orig unix.Termios

	mu     sync.Mutex
	closed bool
}

// Open captures the current mode of fd so Close can put it back.
func Open(fd int) (*Terminal, error) {
	orig, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		if errors.Is(err, unix.ENOTTY) {
			return nil, ErrNotTerminal
		}
		return nil, fmt.Errorf("tty: reading terminal mode: %w", err)
	}
	return &Terminal{fd: fd, orig: *orig}, nil
}

func (t *Terminal) SetEcho(enabled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrNotTerminal
	}
	tp, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("tty: reading terminal mode: %w", err)
	}
	if enabled {
		tp.Lflag |= unix.ECHO
	} else {
		tp.Lflag &^= unix.ECHO
	}
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, tp); err != nil {
		return fmt.Errorf("tty: setting echo: %w", err)
	}
	return nil
}

// Close restores the original mode. Only the first call does anything.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	orig := t.orig
	return unix.IoctlSetTermios(t.fd, ioctlSetTermios, &orig)
}
