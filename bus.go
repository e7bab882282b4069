package plex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ExceptionHandler receives handler failures: returned errors and recovered
// panics (as *HandlerPanic). Dispatch continues after it returns.
type ExceptionHandler func(d *Dispatch, err error)

// Bus dispatches events to the handlers of its Registry.
//
// Concurrency:
// Sync events are dispatched one at a time under the bus lock. The lock is
// re-entrant through the context handed to handlers, so a handler may fire
// nested sync events as long as it passes Dispatch.Context on. Async events take
// no lock and may run concurrently, even for the same event value; handlers of
// async events must do their own synchronisation.
type Bus struct {
	registry *Registry
	config   Config
	log      *slog.Logger
	onError  ExceptionHandler

	// mu serialises sync dispatch
	mu sync.Mutex

	// pool serves Post
	pool *asyncPool

	dispatched      atomic.Uint64
	handlerFailures atomic.Uint64
	bodyFailures    atomic.Uint64
}

// Stats contains bus counters.
type Stats struct {
	// Dispatched is the number of dispatches started.
	Dispatched uint64

	// HandlerFailures is the number of handler errors and panics reported.
	HandlerFailures uint64

	// BodyFailures is the number of dispatches whose body failed.
	BodyFailures uint64
}

// NewBus creates a bus with an empty registry. Use NewBuilder for declarations,
// bundles and a custom logger or exception handler.
func NewBus(cfg Config) *Bus {
	b := &Bus{
		registry: NewRegistry(),
		config:   cfg,
		log:      cfg.logger(),
	}
	b.onError = b.logException
	b.pool = newAsyncPool(b, cfg.workers(), cfg.queue())
	return b
}

// Registry returns the registry of the bus.
func (b *Bus) Registry() *Registry {
	return b.registry
}

// Config returns the configuration of the bus.
func (b *Bus) Config() Config {
	return b.config
}

// Logger returns the logger of the bus.
func (b *Bus) Logger() *slog.Logger {
	return b.log
}

// Stats returns the current counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Dispatched:      b.dispatched.Load(),
		HandlerFailures: b.handlerFailures.Load(),
		BodyFailures:    b.bodyFailures.Load(),
	}
}

// Declare applies event declarations to the registry.
func (b *Bus) Declare(decls ...Declaration) error {
	return b.registry.Declare(decls...)
}

// Register places h in the list of its event type.
func (b *Bus) Register(h RegisteredHandler) error {
	if err := b.registry.Register(h); err != nil {
		return err
	}
	b.log.Debug("plex: registered handler", "id", h.ID(), "owner", h.Owner().String(), "meta", h.Meta().String())
	return nil
}

// RegisterListener binds and registers every handler of l under owner.
func (b *Bus) RegisterListener(owner Owner, l Listener) ([]RegisteredHandler, error) {
	handlers, err := b.registry.RegisterListener(owner, l)
	if err != nil {
		return nil, err
	}
	b.log.Debug("plex: registered listener", "owner", owner.String(), "listener", fmt.Sprintf("%T", l), "handlers", len(handlers))
	return handlers, nil
}

// Unregister removes a single handler.
func (b *Bus) Unregister(h RegisteredHandler) bool {
	ok := b.registry.Unregister(h)
	if ok {
		b.log.Debug("plex: unregistered handler", "id", h.ID(), "owner", h.Owner().String())
	}
	return ok
}

// UnregisterListener removes every handler bound to l.
func (b *Bus) UnregisterListener(l Listener) int {
	n := b.registry.UnregisterListener(l)
	b.log.Debug("plex: unregistered listener", "listener", fmt.Sprintf("%T", l), "handlers", n)
	return n
}

// UnregisterOwner removes every handler registered by owner.
func (b *Bus) UnregisterOwner(owner Owner) int {
	n := b.registry.UnregisterOwner(owner)
	b.log.Debug("plex: unregistered owner", "owner", owner.String(), "handlers", n)
	return n
}

// UnregisterAll removes every handler.
func (b *Bus) UnregisterAll() {
	b.registry.UnregisterAll()
	b.log.Debug("plex: unregistered all handlers")
}

// RegisteredListeners returns every handler registered by owner.
func (b *Bus) RegisteredListeners(owner Owner) []RegisteredHandler {
	return b.registry.RegisteredListeners(owner)
}

// CallEvent dispatches e to every handler of its type.
// The returned error is either an illegal-state error, ErrUndeclaredEvent, or nil.
// Handler failures are reported to the exception handler and never returned.
func (b *Bus) CallEvent(ctx context.Context, e Event) error {
	return b.call(ctx, e, nil, nil, nil)
}

// CallEventAt dispatches e only to the handlers of priority p.
func (b *Bus) CallEventAt(ctx context.Context, e Event, p Priority) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, p)
	}
	return b.call(ctx, e, &p, nil, nil)
}

// CallEventBody dispatches e and then runs body, unless the event was cancelled.
// A failing body is returned as *EventError.
func (b *Bus) CallEventBody(ctx context.Context, e Event, body Body) error {
	return b.call(ctx, e, nil, nil, body)
}

// CallEventHandler dispatches e with an extra one-off handler that runs at the
// end of priority p's tier, then runs body.
func (b *Bus) CallEventHandler(ctx context.Context, e Event, p Priority, handler func(d *Dispatch, e Event) error, body Body) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, p)
	}
	if handler == nil {
		return ErrNilHandler
	}
	extra := &funcHandler{
		id:   uuid.New(),
		meta: HandlerMeta{Type: reflect.TypeOf(e), Priority: p},
		call: handler,
	}
	return b.call(ctx, e, nil, extra, body)
}

// call checks the dispatch preconditions and runs the dispatch.
func (b *Bus) call(ctx context.Context, e Event, only *Priority, extra RegisteredHandler, body Body) error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrUndeclaredEvent)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	l, err := b.registry.listFor(e)
	if err != nil {
		return err
	}

	if e.Async() {
		if b.holdsLock(ctx) {
			return fmt.Errorf("%w: %s", ErrAsyncUnderLock, EventName(e))
		}
		if IsPrimary(ctx) {
			return fmt.Errorf("%w: %s", ErrAsyncFromPrimary, EventName(e))
		}
		return b.fire(ctx, e, l, only, extra, body)
	}

	if b.config.EnforcePrimary && !IsPrimary(ctx) {
		return fmt.Errorf("%w: %s", ErrSyncOffPrimary, EventName(e))
	}
	if !b.holdsLock(ctx) {
		b.mu.Lock()
		var held *heldLock
		ctx, held = withLock(ctx, b)
		defer func() {
			held.release()
			b.mu.Unlock()
		}()
	}
	return b.fire(ctx, e, l, only, extra, body)
}

// fire runs one dispatch over the selected handlers.
func (b *Bus) fire(ctx context.Context, e Event, l *HandlerList, only *Priority, extra RegisteredHandler, body Body) error {
	b.dispatched.Add(1)

	baked := l.bake()
	handlers := baked.handlers
	if only != nil {
		if !baked.mask.has(*only) {
			handlers = nil
		} else {
			handlers = baked.tiers[*only]
		}
	}
	if extra != nil {
		handlers = insertAtTierEnd(handlers, extra)
	}

	s := &dispatchState{
		ctx:      ctx,
		bus:      b,
		event:    e,
		name:     EventName(e),
		handlers: handlers,
		body:     body,
	}
	s.run(0)

	if s.err != nil {
		b.bodyFailures.Add(1)
	}
	return s.result()
}

// insertAtTierEnd returns a copy of handlers with h placed after every handler
// of the same or a lower priority.
func insertAtTierEnd(handlers []RegisteredHandler, h RegisteredHandler) []RegisteredHandler {
	p := h.Meta().Priority
	i := 0
	for i < len(handlers) && handlers[i].Meta().Priority <= p {
		i++
	}
	out := make([]RegisteredHandler, 0, len(handlers)+1)
	out = append(out, handlers[:i]...)
	out = append(out, h)
	return append(out, handlers[i:]...)
}

// report passes a handler failure to the exception handler.
func (b *Bus) report(d *Dispatch, err error) {
	b.handlerFailures.Add(1)
	if b.onError != nil {
		b.onError(d, err)
	}
}

// logException is the default ExceptionHandler.
func (b *Bus) logException(d *Dispatch, err error) {
	attrs := []any{
		"event", d.state.name,
		"owner", d.Handler().Owner().String(),
		"priority", d.Priority().String(),
		"err", err,
	}
	var p *HandlerPanic
	if errors.As(err, &p) {
		attrs = append(attrs, "stack", string(p.Stack))
	}
	b.log.Error("plex: handler failed", attrs...)
}

type primaryKey struct{}

type lockKey struct{}

// heldLock is a node in the chain of bus locks held by a context. A node only
// counts while held is set; it is cleared when the dispatch that took the lock
// returns, so a context kept past its dispatch falls back to locking.
type heldLock struct {
	bus    *Bus
	parent *heldLock
	held   atomic.Bool
}

func (l *heldLock) release() {
	l.held.Store(false)
}

// WithPrimary marks ctx as belonging to the primary goroutine, usually the
// server tick. Sync events are expected there; async events are rejected.
func WithPrimary(ctx context.Context) context.Context {
	return context.WithValue(ctx, primaryKey{}, true)
}

// IsPrimary reports whether ctx was marked with WithPrimary.
func IsPrimary(ctx context.Context) bool {
	v, _ := ctx.Value(primaryKey{}).(bool)
	return v
}

// withLock records that ctx holds the dispatch lock of b. The caller must hold
// b.mu and release the returned node before unlocking.
func withLock(ctx context.Context, b *Bus) (context.Context, *heldLock) {
	parent, _ := ctx.Value(lockKey{}).(*heldLock)
	l := &heldLock{bus: b, parent: parent}
	l.held.Store(true)
	return context.WithValue(ctx, lockKey{}, l), l
}

// holdsLock reports whether ctx holds the dispatch lock of b.
//
// The token is only meaningful on the goroutine running the dispatch. A
// goroutine started by a handler must not dispatch sync events with
// d.Context() while that dispatch is still running.
func (b *Bus) holdsLock(ctx context.Context) bool {
	for l, _ := ctx.Value(lockKey{}).(*heldLock); l != nil; l = l.parent {
		if l.bus == b && l.held.Load() {
			return true
		}
	}
	return false
}
