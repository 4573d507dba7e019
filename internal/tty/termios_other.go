//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package tty

// Open always fails where there is no termios.
func Open(fd int) (Echoer, error) {
	return nil, ErrNotTerminal
}
