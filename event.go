package plex

import (
	"reflect"
)

// Event is implemented by every payload that can be dispatched on a Bus.
// Embed Base (or CancellableBase) to implement it.
type Event interface {
	// Async reports whether the event is fired off the primary goroutine.
	// The value is fixed when the event is constructed.
	Async() bool
}

// Cancellable is implemented by events whose effect can be prevented by a handler.
type Cancellable interface {
	Event
	Cancelled() bool
	SetCancelled(cancelled bool)
}

// Named is implemented by events that want a name other than their Go type name.
type Named interface {
	EventName() string
}

// Base is embedded in event structs. The zero value is a synchronous event.
type Base struct {
	async bool
}

// AsyncBase returns a Base for an event that is fired asynchronously.
func AsyncBase() Base {
	return Base{async: true}
}

// Async implements Event.
func (b Base) Async() bool {
	return b.async
}

// CancellableBase is embedded in cancellable event structs.
// Events embedding it must be dispatched by pointer.
type CancellableBase struct {
	Base
	cancelled bool
}

// AsyncCancellableBase returns a CancellableBase for an asynchronous event.
func AsyncCancellableBase() CancellableBase {
	return CancellableBase{Base: AsyncBase()}
}

// Cancelled implements Cancellable.
func (c *CancellableBase) Cancelled() bool {
	return c.cancelled
}

// SetCancelled implements Cancellable.
func (c *CancellableBase) SetCancelled(cancelled bool) {
	c.cancelled = cancelled
}

// EventName returns the name of an event: its Named.EventName if implemented,
// otherwise the name of its Go type.
func EventName(e Event) string {
	if n, ok := e.(Named); ok {
		return n.EventName()
	}
	t := reflect.TypeOf(e)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// isCancelled reports whether e is a cancelled Cancellable.
func isCancelled(e Event) bool {
	c, ok := e.(Cancellable)
	return ok && c.Cancelled()
}
