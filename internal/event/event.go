package event

import (
	"context"
	"errors"
	"slices"
)

type Name string

type Event struct {
	Name Name
	Data any
}

type Listener interface {
	Listen(ctx context.Context, ev Event) error
}

type ListenerFunc func(ctx context.Context, ev Event) error

func (f ListenerFunc) Listen(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Bus delivers events synchronously, on the goroutine that calls Dispatch,
// to listeners in the order they were added. A Bus is not safe for
// concurrent use; it belongs to whichever loop owns the side effects its
// listeners perform.
type Bus struct {
	named map[Name][]*entry
	all   []*entry
}

type entry struct {
	l Listener
}

func NewBus() *Bus {
	return &Bus{named: map[Name][]*entry{}}
}

// Listen registers l for events called name and returns a function that
// removes it again.
func (b *Bus) Listen(name Name, l Listener) (remove func()) {
	e := &entry{l}
	b.named[name] = append(b.named[name], e)
	return func() {
		b.named[name] = slices.DeleteFunc(b.named[name], func(x *entry) bool { return x == e })
	}
}

func (b *Bus) ListenFunc(name Name, fn ListenerFunc) (remove func()) {
	return b.Listen(name, fn)
}

// ListenAll registers l for every event, ahead of the named listeners.
func (b *Bus) ListenAll(l Listener) (remove func()) {
	e := &entry{l}
	b.all = append(b.all, e)
	return func() {
		b.all = slices.DeleteFunc(b.all, func(x *entry) bool { return x == e })
	}
}

// Dispatch calls every listener for ev even if some fail, and returns their
// errors joined.
func (b *Bus) Dispatch(ctx context.Context, ev Event) error {
	var errs []error
	for _, e := range b.all {
		errs = append(errs, e.l.Listen(ctx, ev))
	}
	for _, e := range b.named[ev.Name] {
		errs = append(errs, e.l.Listen(ctx, ev))
	}
	return errors.Join(errs...)
}
