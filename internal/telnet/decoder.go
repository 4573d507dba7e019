package telnet

import (
	"errors"
	"io"
)

// ErrEmptyRead is returned when the underlying reader yields zero bytes. The
// server has gone away even if the reader did not say so.
var ErrEmptyRead = errors.New("telnet: empty read")

type decodeState int

const (
	decodeNormal decodeState = 0 + iota
	decodeIAC
	decodeOption
)

// Decoder splits a telnet byte stream into Data and Command events. The
// state survives between calls to Feed, so a command may straddle two reads.
type Decoder struct {
	ds   decodeState
	verb Verb
}

// Feed decodes p and returns the events it completes. Feeding an empty
// buffer is an error: a zero-length read means the peer is gone.
func (d *Decoder) Feed(p []byte) ([]Event, error) {
	if len(p) == 0 {
		return nil, ErrEmptyRead
	}

	var events []Event
	from := 0
	for i, b := range p {
		switch d.ds {
		case decodeNormal:
			if b == IAC {
				if from < i {
					events = append(events, Data(clone(p[from:i])))
				}
				d.ds = decodeIAC
				from = i + 1
			}
		case decodeIAC:
			switch v := Verb(b); {
			case b == IAC:
				events = append(events, Data{IAC})
				d.ds = decodeNormal
			case v.Negotiation():
				d.verb = v
				d.ds = decodeOption
			default:
				events = append(events, Command{Verb: v})
				d.ds = decodeNormal
			}
			from = i + 1
		case decodeOption:
			events = append(events, Command{Verb: d.verb, Option: Option(b)})
			d.ds = decodeNormal
			from = i + 1
		}
	}
	if d.ds == decodeNormal && from < len(p) {
		events = append(events, Data(clone(p[from:])))
	}
	return events, nil
}

func clone(p []byte) []byte {
	return append([]byte(nil), p...)
}

const bufsize = 1024

// Reader binds a Decoder to an io.Reader.
type Reader struct {
	r   io.Reader
	dec Decoder
	buf [bufsize]byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadEvents performs one read of up to 1024 bytes and decodes it. Events
// decoded from bytes that arrived alongside an error are returned with that
// error.
func (r *Reader) ReadEvents() ([]Event, error) {
	n, err := r.r.Read(r.buf[:])
	if n == 0 {
		if err == nil {
			err = ErrEmptyRead
		}
		return nil, err
	}
	events, _ := r.dec.Feed(r.buf[:n])
	return events, err
}
