package plex

import (
	"errors"
	"fmt"
)

// ErrIllegalState is the root of every error caused by calling the bus in a way
// it does not permit. These are programmer errors, not runtime conditions.
var ErrIllegalState = errors.New("plex: illegal state")

var (
	// ErrDuplicateHandler is returned when an equal handler is already registered
	// at the same priority.
	ErrDuplicateHandler = fmt.Errorf("%w: handler already registered at this priority", ErrIllegalState)

	// ErrAlreadyYielded is returned when a handler yields more than once.
	ErrAlreadyYielded = fmt.Errorf("%w: event already yielded", ErrIllegalState)

	// ErrYieldOutsideDispatch is returned when Yield is called after the handler
	// that received the dispatch frame has returned.
	ErrYieldOutsideDispatch = fmt.Errorf("%w: yield outside of dispatch", ErrIllegalState)

	// ErrAsyncFromPrimary is returned when an async event is dispatched from the
	// primary goroutine.
	ErrAsyncFromPrimary = fmt.Errorf("%w: async event dispatched from the primary goroutine", ErrIllegalState)

	// ErrAsyncUnderLock is returned when an async event is dispatched while the
	// caller holds the bus dispatch lock.
	ErrAsyncUnderLock = fmt.Errorf("%w: async event dispatched while holding the dispatch lock", ErrIllegalState)

	// ErrSyncOffPrimary is returned when a sync event is dispatched from outside
	// the primary goroutine and Config.EnforcePrimary is set.
	ErrSyncOffPrimary = fmt.Errorf("%w: sync event dispatched off the primary goroutine", ErrIllegalState)

	// ErrNotAsync is returned by Post for events that are not asynchronous.
	ErrNotAsync = fmt.Errorf("%w: only async events can be posted", ErrIllegalState)
)

var (
	// ErrUndeclaredEvent is returned when an event type has no declared handler list.
	ErrUndeclaredEvent = errors.New("plex: event type not declared")

	// ErrAlreadyDeclared is returned when an event type is declared twice.
	ErrAlreadyDeclared = errors.New("plex: event type already declared")

	// ErrInvalidPriority is returned for priorities outside Lowest..Monitor.
	ErrInvalidPriority = errors.New("plex: invalid priority")

	// ErrNilHandler is returned when a nil handler function is provided.
	ErrNilHandler = errors.New("plex: handler cannot be nil")

	// ErrPoolStopped is returned by Post when the async pool is not running.
	ErrPoolStopped = errors.New("plex: async pool is not running")

	// ErrPostCancelled is the result of a PostAfter dispatch that was cancelled.
	ErrPostCancelled = errors.New("plex: delayed post cancelled")
)

// EventError wraps a failure of an event body. It is propagated to the original
// caller of CallEvent, even through nested yields.
type EventError struct {
	// Event is the name of the event whose body failed.
	Event string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EventError) Error() string {
	return "plex: body of event " + e.Event + " failed: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *EventError) Unwrap() error {
	return e.Err
}

// HandlerPanic wraps a value recovered from a panicking handler or body.
type HandlerPanic struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (p *HandlerPanic) Error() string {
	return fmt.Sprintf("plex: panic: %v", p.Value)
}

// Unwrap returns the panic value if it is an error.
func (p *HandlerPanic) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}
