package telnet

import (
	"fmt"

	"github.com/stesla/quagmire/internal/event"
)

const (
	EventData    event.Name = "telnet.event.data"
	EventCommand event.Name = "telnet.event.command"
	EventSend    event.Name = "telnet.event.send"
)

// Event is a single unit decoded from the server's byte stream: either a run
// of Data or a Command.
type Event interface {
	Name() event.Name
}

// Data is a non-empty run of literal bytes, with IAC IAC already collapsed to
// a single 255.
type Data []byte

func (Data) Name() event.Name { return EventData }

// Verb is the byte following IAC.
type Verb byte

const (
	Will Verb = WILL
	Wont Verb = WONT
	Do   Verb = DO
	Dont Verb = DONT
)

// Negotiation reports whether v is followed by an option byte.
func (v Verb) Negotiation() bool {
	switch v {
	case Will, Wont, Do, Dont:
		return true
	}
	return false
}

func (v Verb) String() string {
	switch v {
	case Will:
		return "WILL"
	case Wont:
		return "WONT"
	case Do:
		return "DO"
	case Dont:
		return "DONT"
	case GA:
		return "GA"
	case NOP:
		return "NOP"
	}
	return fmt.Sprintf("CMD(%d)", byte(v))
}

// Option is a telnet option code. Codes other than Echo are carried through
// unchanged.
type Option byte

const Echo Option = ECHO

// Known reports whether the client understands o.
func (o Option) Known() bool { return o == Echo }

func (o Option) String() string {
	if o == Echo {
		return "ECHO"
	}
	return fmt.Sprintf("OPT(%d)", byte(o))
}

// Command is either a negotiation (Verb is WILL, WONT, DO or DONT and Option
// is set) or an unknown two-byte command, in which case Option is zero.
type Command struct {
	Verb   Verb
	Option Option
}

func (Command) Name() event.Name { return EventCommand }

func (c Command) String() string {
	if c.Verb.Negotiation() {
		return c.Verb.String() + " " + c.Option.String()
	}
	return c.Verb.String()
}

// Bytes returns the wire form of c.
func (c Command) Bytes() []byte {
	if c.Verb.Negotiation() {
		return []byte{IAC, byte(c.Verb), byte(c.Option)}
	}
	return []byte{IAC, byte(c.Verb)}
}
