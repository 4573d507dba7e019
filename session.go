package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stesla/quagmire/internal/display"
	"github.com/stesla/quagmire/internal/event"
	"github.com/stesla/quagmire/internal/telnet"
	"github.com/stesla/quagmire/internal/tty"
)

const (
	lineTerminator = "\r\n"
	replyQueueSize = 16
)

type connection interface {
	Events() <-chan telnet.Event
	Send(p []byte) error
	Close() error
}

type macroExpander interface {
	ExpandMacro(name string) (string, bool)
}

// session is the control loop. Everything it touches (the display, the
// echo state, writes to the connection) is only touched from run.
type session struct {
	conn    connection
	echo    tty.Echoer
	macros  macroExpander
	display *display.Writer
	bus     *event.Bus
	logger  zerolog.Logger

	replies chan []byte
}

func newSession(conn connection, echo tty.Echoer, macros macroExpander, out *display.Writer, logger zerolog.Logger) *session {
	s := &session{
		conn:    conn,
		echo:    echo,
		macros:  macros,
		display: out,
		bus:     event.NewBus(),
		logger:  logger,
		replies: make(chan []byte, replyQueueSize),
	}
	s.bus.ListenAll(LogHandler{Logger: s.logger})
	s.bus.ListenFunc(telnet.EventData, s.handleData)
	s.bus.ListenFunc(telnet.EventCommand, s.handleCommand)
	return s
}

// run multiplexes server events, user input and queued replies until the
// user quits, input ends, the server goes away or ctx is cancelled. It closes
// the connection on the way out.
func (s *session) run(ctx context.Context, inputs <-chan input) {
	defer s.close()

	events := s.conn.Events()
	for {
		select {
		case p := <-s.replies:
			s.send(ctx, p)
			continue
		default:
		}

		select {
		case ev, ok := <-events:
			if !ok {
				s.logger.Debug().Msg("server closed connection")
				return
			}
			if err := s.bus.Dispatch(ctx, event.Event{Name: ev.Name(), Data: ev}); err != nil {
				s.logger.Error().Err(err).Msg("handling server event")
			}
		case in, ok := <-inputs:
			if !ok {
				s.logger.Debug().Msg("end of input")
				return
			}
			if !s.handleInput(ctx, in) {
				return
			}
		case p := <-s.replies:
			s.send(ctx, p)
		case <-ctx.Done():
			s.logger.Debug().Err(ctx.Err()).Msg("interrupted")
			return
		}
	}
}

func (s *session) close() {
	if err := s.conn.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("closing connection")
	}
	s.display.WriteString("Goodbye!\n")
}

func (s *session) handleData(_ context.Context, ev event.Event) error {
	_, err := s.display.Write(ev.Data.(telnet.Data))
	return err
}

func (s *session) handleCommand(_ context.Context, ev event.Event) error {
	cmd := ev.Data.(telnet.Command)
	if !cmd.Verb.Negotiation() || !cmd.Option.Known() {
		return nil
	}
	switch cmd.Verb {
	case telnet.Will:
		s.logger.Debug().Msg("received WILL ECHO")
		s.queueReply(telnet.Command{Verb: telnet.Do, Option: telnet.Echo})
		s.setEcho(false)
	case telnet.Wont:
		s.logger.Debug().Msg("received WONT ECHO")
		s.queueReply(telnet.Command{Verb: telnet.Dont, Option: telnet.Echo})
		s.setEcho(true)
	}
	return nil
}

// queueReply hands cmd to the loop's reply queue. The queue only fills if the
// server floods us with negotiations; in that case the reply is written in
// place rather than lost.
func (s *session) queueReply(cmd telnet.Command) {
	select {
	case s.replies <- cmd.Bytes():
	default:
		s.send(context.Background(), cmd.Bytes())
	}
}

func (s *session) setEcho(enabled bool) {
	if err := s.echo.SetEcho(enabled); err != nil {
		s.logger.Error().Err(err).Bool("echo", enabled).Msg("couldn't toggle echo")
	}
}

// handleInput reports whether the loop should keep going.
func (s *session) handleInput(ctx context.Context, in input) bool {
	if !in.isCommand {
		s.sendLine(ctx, in.line)
		return true
	}
	switch in.command {
	case "quit":
		return false
	default:
		text, ok := s.macros.ExpandMacro(in.command)
		if !ok {
			s.display.WriteString(fmt.Sprintf("unknown command: %s\n", in.command))
			return true
		}
		for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
			s.sendLine(ctx, line)
		}
	}
	return true
}

func (s *session) sendLine(ctx context.Context, line string) {
	s.send(ctx, []byte(line+lineTerminator))
}

func (s *session) send(ctx context.Context, p []byte) {
	s.bus.Dispatch(ctx, event.Event{Name: telnet.EventSend, Data: p})
	if err := s.conn.Send(p); err != nil {
		s.logger.Debug().Err(err).Msg("dropping output")
	}
}
