// Package display writes server text to the local terminal.
package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Writer filters or decodes bytes from the server and flushes after every
// Write.
//
// In US-ASCII mode bytes outside the 7-bit range are dropped. Any other
// charset is decoded to UTF-8; a multibyte sequence split between two writes
// is held back until it completes.
type Writer struct {
	out *bufio.Writer
	dec io.Writer
}

// New returns a Writer for the named IANA charset.
func New(w io.Writer, charset string) (*Writer, error) {
	out := bufio.NewWriter(w)
	if isASCII(charset) {
		return &Writer{out: out}, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("display: charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("display: charset %q is not supported", charset)
	}
	if enc == encoding.Nop {
		return &Writer{out: out, dec: out}, nil
	}
	return &Writer{out: out, dec: transform.NewWriter(out, enc.NewDecoder())}, nil
}

func isASCII(charset string) bool {
	switch strings.ToUpper(charset) {
	case "", "ASCII", "US-ASCII":
		return true
	}
	return false
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.dec == nil {
		for _, b := range p {
			if b < 0x80 {
				w.out.WriteByte(b)
			}
		}
	} else if _, err := w.dec.Write(p); err != nil {
		return 0, err
	}
	return len(p), w.out.Flush()
}

// WriteString writes local messages, which are already UTF-8, bypassing the
// charset.
func (w *Writer) WriteString(s string) (int, error) {
	w.out.WriteString(s)
	return len(s), w.out.Flush()
}
