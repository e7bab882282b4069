package plex

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"
)

// Body is the real effect of an event. It runs once after the handlers, unless
// the event was cancelled by then.
type Body func(ctx context.Context) error

// dispatchState is shared by every frame of a single dispatch.
//
// State machine: not started → running(i) → [yielded → nested running → returned]
// → body invoked once → complete. Only the innermost frame invokes the body.
type dispatchState struct {
	ctx      context.Context
	bus      *Bus
	event    Event
	name     string
	handlers []RegisteredHandler
	body     Body

	bodyDone bool
	err      *EventError
}

// run calls the handlers from index from onwards, then the body.
func (s *dispatchState) run(from int) {
	for i := from; i < len(s.handlers); i++ {
		h := s.handlers[i]
		if h.Meta().IgnoreCancelled && isCancelled(s.event) {
			continue
		}

		d := &Dispatch{state: s, handler: h, next: i + 1}
		d.active.Store(true)
		s.invoke(d)
		d.active.Store(false)

		// The yield already ran the remaining handlers and the body.
		if d.yielded.Load() {
			return
		}
	}
	s.runBody()
}

// invoke calls a single handler, isolating its failures from the dispatch.
func (s *dispatchState) invoke(d *Dispatch) {
	defer func() {
		if r := recover(); r != nil {
			s.bus.report(d, &HandlerPanic{Value: r, Stack: debug.Stack()})
		}
	}()

	err := d.handler.Call(d, s.event)
	if err == nil {
		return
	}
	// A handler passing on the body error from Yield is not a handler failure.
	var evErr *EventError
	if errors.As(err, &evErr) && evErr == s.err {
		return
	}
	s.bus.report(d, err)
}

// runBody invokes the body exactly once.
func (s *dispatchState) runBody() {
	if s.bodyDone {
		return
	}
	s.bodyDone = true
	if s.body == nil || isCancelled(s.event) {
		return
	}

	if err := s.callBody(); err != nil {
		s.err = &EventError{Event: s.name, Err: err}
	}
}

// callBody runs the body, converting a panic into an error so that it cannot
// unwind through a yielding handler.
func (s *dispatchState) callBody() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerPanic{Value: r, Stack: debug.Stack()}
		}
	}()
	return s.body(s.ctx)
}

// result returns the body error, if any.
func (s *dispatchState) result() error {
	if s.err != nil {
		return s.err
	}
	return nil
}

// Dispatch is the frame passed to a handler alongside the event. It is only
// valid while the handler is running.
type Dispatch struct {
	state   *dispatchState
	handler RegisteredHandler
	next    int

	active  atomic.Bool
	yielded atomic.Bool
}

// Context returns the context of the dispatch. Pass it on to nested CallEvent
// calls so that the bus recognises the dispatch lock as already held.
func (d *Dispatch) Context() context.Context {
	return d.state.ctx
}

// Event returns the event being dispatched.
func (d *Dispatch) Event() Event {
	return d.state.event
}

// Handler returns the handler this frame was created for.
func (d *Dispatch) Handler() RegisteredHandler {
	return d.handler
}

// Priority returns the priority of the handler this frame was created for.
func (d *Dispatch) Priority() Priority {
	return d.handler.Meta().Priority
}

// Yielded reports whether the handler has yielded.
func (d *Dispatch) Yielded() bool {
	return d.yielded.Load()
}

// Yield runs the remaining handlers and the body before returning to the caller.
// It may be called at most once, and only while the handler is running.
//
// The returned error is the *EventError of the body, if it failed. The error is
// returned from the original CallEvent whether or not the handler passes it on.
func (d *Dispatch) Yield() error {
	if d == nil || !d.active.Load() {
		return ErrYieldOutsideDispatch
	}
	if !d.yielded.CompareAndSwap(false, true) {
		return ErrAlreadyYielded
	}
	d.state.run(d.next)
	return d.state.result()
}
