package telnet

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by Send once the write pump has stopped.
var ErrClosed = errors.New("telnet: connection closed")

const (
	eventQueueSize = 64
	sendQueueSize  = 64
)

// Conn owns a socket and runs two pumps over it. The read pump decodes
// incoming bytes onto Events; the write pump drains buffers passed to Send.
// Either pump stops on its first I/O error without affecting the other.
type Conn struct {
	conn   net.Conn
	logger zerolog.Logger

	events chan Event
	sends  chan []byte

	closed    chan struct{}
	writeDone chan struct{}
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup

	readErr error
}

// Dial connects to host:port and starts the pumps.
func Dial(ctx context.Context, host string, port uint16, logger zerolog.Logger) (*Conn, error) {
	var d net.Dialer
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	tcp, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return Wrap(tcp, logger), nil
}

// Wrap starts the pumps over an already established connection.
func Wrap(c net.Conn, logger zerolog.Logger) *Conn {
	cc := &Conn{
		conn:      c,
		logger:    logger,
		events:    make(chan Event, eventQueueSize),
		sends:     make(chan []byte, sendQueueSize),
		closed:    make(chan struct{}),
		writeDone: make(chan struct{}),
	}
	cc.wg.Add(2)
	go cc.readPump()
	go cc.writePump()
	return cc
}

// Events is closed when the read pump stops, whether the peer hung up or the
// read failed. Err distinguishes the two afterwards.
func (c *Conn) Events() <-chan Event {
	return c.events
}

// Err returns the error that stopped the read pump. It is only meaningful
// after Events has been closed.
func (c *Conn) Err() error {
	return c.readErr
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send queues p for the write pump. It blocks while the queue is full and
// fails with ErrClosed once the pump has stopped. p must not be modified
// after the call.
func (c *Conn) Send(p []byte) error {
	select {
	case <-c.writeDone:
		return ErrClosed
	default:
	}
	select {
	case c.sends <- p:
		return nil
	case <-c.writeDone:
		return ErrClosed
	}
}

// Close shuts down the socket in both directions and waits for the pumps to
// exit. Subsequent calls return the first call's result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		if hc, ok := c.conn.(interface {
			CloseRead() error
			CloseWrite() error
		}); ok {
			hc.CloseRead()
			hc.CloseWrite()
		}
		c.closeErr = c.conn.Close()
		c.wg.Wait()
	})
	return c.closeErr
}

func (c *Conn) readPump() {
	defer c.wg.Done()
	defer close(c.events)

	r := NewReader(c.conn)
	for {
		events, err := r.ReadEvents()
		for _, ev := range events {
			select {
			case c.events <- ev:
			case <-c.closed:
				c.readErr = ErrClosed
				return
			}
		}
		if err != nil {
			c.readErr = err
			c.logger.Debug().Err(err).Msg("read pump stopped")
			return
		}
	}
}

func (c *Conn) writePump() {
	defer c.wg.Done()
	defer close(c.writeDone)

	for {
		select {
		case p := <-c.sends:
			if _, err := c.conn.Write(p); err != nil {
				c.logger.Debug().Err(err).Msg("write pump stopped")
				return
			}
		case <-c.closed:
			return
		}
	}
}
