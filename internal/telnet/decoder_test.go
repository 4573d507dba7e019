package telnet

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeedEmpty(t *testing.T) {
	var d Decoder
	events, err := d.Feed(nil)
	require.ErrorIs(t, err, ErrEmptyRead)
	require.Empty(t, events)
}

func TestFeed(t *testing.T) {
	var tests = []struct {
		val      []byte
		expected []Event
	}{
		{[]byte("Hello, world!"), []Event{Data("Hello, world!")}},
		{[]byte{IAC, WILL, ECHO}, []Event{Command{Will, Echo}}},
		{
			append(append([]byte("Hello, world!"), IAC, WILL, ECHO), "Goodbye, world!"...),
			[]Event{Data("Hello, world!"), Command{Will, Echo}, Data("Goodbye, world!")},
		},
		{[]byte{IAC, IAC}, []Event{Data{IAC}}},
		{[]byte{'a', IAC, IAC, 'b'}, []Event{Data("a"), Data{IAC}, Data("b")}},
		{[]byte{IAC, WONT, ECHO}, []Event{Command{Wont, Echo}}},
		{[]byte{IAC, DO, ECHO}, []Event{Command{Do, Echo}}},
		{[]byte{IAC, DONT, 31}, []Event{Command{Dont, Option(31)}}},
		{[]byte{IAC, WILL, 0}, []Event{Command{Will, Option(0)}}},
		{[]byte{'a', IAC, GA, 'b'}, []Event{Data("a"), Command{Verb: GA}, Data("b")}},
		{[]byte{IAC, NOP, IAC, NOP}, []Event{Command{Verb: NOP}, Command{Verb: NOP}}},
		{[]byte{IAC, 17}, []Event{Command{Verb: 17}}},
	}
	for i, test := range tests {
		var d Decoder
		events, err := d.Feed(test.val)
		require.NoError(t, err, i)
		require.Equal(t, test.expected, events, i)
	}
}

func TestFeedAcrossBoundaries(t *testing.T) {
	var tests = []struct {
		vals     [][]byte
		expected []Event
	}{
		{[][]byte{[]byte("foo"), []byte("bar")}, []Event{Data("foo"), Data("bar")}},
		{[][]byte{{'h', IAC}, {IAC, 'i'}}, []Event{Data("h"), Data{IAC}, Data("i")}},
		{[][]byte{{'h', IAC}, {WILL, ECHO, 'i'}}, []Event{Data("h"), Command{Will, Echo}, Data("i")}},
		{[][]byte{{'h', IAC, WILL}, {ECHO, 'i'}}, []Event{Data("h"), Command{Will, Echo}, Data("i")}},
		{[][]byte{{IAC}, {WONT}, {ECHO}}, []Event{Command{Wont, Echo}}},
		{[][]byte{{IAC}, {GA}}, []Event{Command{Verb: GA}}},
	}
	for i, test := range tests {
		var d Decoder
		var events []Event
		for _, val := range test.vals {
			evs, err := d.Feed(val)
			require.NoError(t, err, i)
			events = append(events, evs...)
		}
		require.Equal(t, test.expected, events, i)
	}
}

func TestFeedSplitMatchesWhole(t *testing.T) {
	stream := []byte{'a', 'b', IAC, WILL, ECHO, 'c', IAC, IAC, 'd', IAC, NOP, IAC, DONT, 3, 'e'}
	var whole Decoder
	expected, err := whole.Feed(stream)
	require.NoError(t, err)

	// Splits inside a command must still reassemble it; splits between
	// literal bytes may split a Data run, so compare reconstructed streams.
	for split := 1; split < len(stream); split++ {
		var d Decoder
		first, err := d.Feed(stream[:split])
		require.NoError(t, err, split)
		second, err := d.Feed(stream[split:])
		require.NoError(t, err, split)
		actual := append(first, second...)
		require.Equal(t, commands(expected), commands(actual), split)
		require.Equal(t, data(expected), data(actual), split)
	}
}

func TestFeedSplitOnEventBoundary(t *testing.T) {
	a := append([]byte("Hello"), IAC, WILL, ECHO)
	b := append([]byte{IAC, IAC}, "bye"...)

	var whole Decoder
	expected, err := whole.Feed(append(append([]byte{}, a...), b...))
	require.NoError(t, err)

	var d Decoder
	first, err := d.Feed(a)
	require.NoError(t, err)
	second, err := d.Feed(b)
	require.NoError(t, err)
	require.Equal(t, expected, append(first, second...))
}

func TestDataReconstructsStream(t *testing.T) {
	stream := []byte{'x', IAC, IAC, IAC, IAC, 'y', IAC, WILL, ECHO, 200, IAC, AYT, 'z'}
	var d Decoder
	events, err := d.Feed(stream)
	require.NoError(t, err)
	require.Equal(t, []byte{'x', IAC, IAC, 'y', 200, 'z'}, data(events))
}

func TestFeedDoesNotAliasInput(t *testing.T) {
	buf := []byte("abc")
	var d Decoder
	events, err := d.Feed(buf)
	require.NoError(t, err)
	buf[0] = 'z'
	require.Equal(t, []Event{Data("abc")}, events)
}

func TestCommandBytes(t *testing.T) {
	require.Equal(t, []byte{IAC, DO, ECHO}, Command{Do, Echo}.Bytes())
	require.Equal(t, []byte{IAC, DONT, ECHO}, Command{Dont, Echo}.Bytes())
	require.Equal(t, []byte{IAC, GA}, Command{Verb: GA}.Bytes())
	require.Equal(t, "WILL ECHO", Command{Will, Echo}.String())
	require.Equal(t, "DO OPT(24)", Command{Do, 24}.String())
	require.True(t, Echo.Known())
	require.False(t, Option(24).Known())
}

type boomReader struct {
	n   int
	err error
}

func (r boomReader) Read(b []byte) (n int, err error) {
	for i := 0; i < r.n && i < len(b); i++ {
		b[i] = 'A' + byte(i)
	}
	return r.n, r.err
}

func TestReadEvents(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{'h', 'i', IAC, WILL, ECHO}))
	events, err := r.ReadEvents()
	require.NoError(t, err)
	require.Equal(t, []Event{Data("hi"), Command{Will, Echo}}, events)

	events, err = r.ReadEvents()
	require.Equal(t, io.EOF, err)
	require.Empty(t, events)
}

func TestReadEventsZeroLengthRead(t *testing.T) {
	r := NewReader(boomReader{0, nil})
	events, err := r.ReadEvents()
	require.ErrorIs(t, err, ErrEmptyRead)
	require.Empty(t, events)
}

func TestReadEventsWithUnderlyingError(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(boomReader{3, boom})
	events, err := r.ReadEvents()
	require.ErrorIs(t, err, boom)
	require.Equal(t, []Event{Data("ABC")}, events)
}

func commands(events []Event) (result []Command) {
	for _, ev := range events {
		if c, ok := ev.(Command); ok {
			result = append(result, c)
		}
	}
	return
}

func data(events []Event) (result []byte) {
	for _, ev := range events {
		if d, ok := ev.(Data); ok {
			result = append(result, d...)
		}
	}
	return
}
