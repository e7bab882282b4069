package plex

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// HandlerFunc handles an event of type E. The dispatch frame d gives access to
// the context and to Yield.
type HandlerFunc[E Event] func(d *Dispatch, e E) error

// RegisteredHandler is a handler bound to its metadata, ready to be placed in a HandlerList.
// It is either bound to a Listener (see Bind) or a standalone callable (see NewHandler).
type RegisteredHandler interface {
	// ID returns a unique identifier assigned when the handler was created.
	ID() uuid.UUID

	// Meta returns the registration metadata.
	Meta() HandlerMeta

	// Owner returns the owner that registered the handler.
	Owner() Owner

	// Listener returns the listener the handler is bound to, or nil for callables.
	Listener() Listener

	// Call invokes the handler.
	Call(d *Dispatch, e Event) error

	// key returns the identity used for duplicate detection within a priority tier.
	key() handlerKey
}

// handlerKey is the comparable identity of a handler.
type handlerKey struct {
	listener Listener
	binding  string
	callable *funcHandler
}

// Registrar accepts handlers. Both *Registry and *Bus implement it.
type Registrar interface {
	Register(h RegisteredHandler) error
}

// Listener is an object whose handlers are declared by an explicit binding table.
// Listeners are compared by identity, so they should be pointers.
//
// Example:
//
//	type ChatFilter struct{ Banned []string }
//
//	func (f *ChatFilter) Bindings() []plex.Binding {
//	    return []plex.Binding{
//	        plex.Bind("filter", plex.Low, true, f.filter),
//	    }
//	}
//
//	func (f *ChatFilter) filter(d *plex.Dispatch, e *plex.EventChat) error { ... }
type Listener interface {
	Bindings() []Binding
}

// Binding is one entry of a Listener's binding table.
type Binding struct {
	name string
	meta HandlerMeta
	call func(d *Dispatch, e Event) error
}

// Bind creates a binding for event type E. The name identifies the binding within
// its listener and must be unique per priority.
func Bind[E Event](name string, priority Priority, ignoreCancelled bool, fn HandlerFunc[E]) Binding {
	var call func(*Dispatch, Event) error
	if fn != nil {
		call = typed(fn)
	}
	return Binding{
		name: name,
		meta: Meta[E](priority, ignoreCancelled),
		call: call,
	}
}

// Name returns the binding name.
func (b Binding) Name() string {
	return b.name
}

// Meta returns the binding metadata.
func (b Binding) Meta() HandlerMeta {
	return b.meta
}

// typed adapts a typed handler to the untyped call signature.
// Events of sibling types that share the handler list are skipped.
func typed[E Event](fn HandlerFunc[E]) func(*Dispatch, Event) error {
	return func(d *Dispatch, e Event) error {
		te, ok := e.(E)
		if !ok {
			return nil
		}
		return fn(d, te)
	}
}

// methodHandler is a handler bound to a listener.
type methodHandler struct {
	id       uuid.UUID
	owner    Owner
	listener Listener
	binding  Binding
}

func (h *methodHandler) ID() uuid.UUID                   { return h.id }
func (h *methodHandler) Meta() HandlerMeta               { return h.binding.meta }
func (h *methodHandler) Owner() Owner                    { return h.owner }
func (h *methodHandler) Listener() Listener              { return h.listener }
func (h *methodHandler) Call(d *Dispatch, e Event) error { return h.binding.call(d, e) }

func (h *methodHandler) key() handlerKey {
	return handlerKey{listener: h.listener, binding: h.binding.name}
}

func (h *methodHandler) String() string {
	return fmt.Sprintf("%T.%s %s", h.listener, h.binding.name, h.binding.meta)
}

// funcHandler is a standalone callable handler.
type funcHandler struct {
	id    uuid.UUID
	owner Owner
	meta  HandlerMeta
	call  func(d *Dispatch, e Event) error
}

func (h *funcHandler) ID() uuid.UUID                   { return h.id }
func (h *funcHandler) Meta() HandlerMeta               { return h.meta }
func (h *funcHandler) Owner() Owner                    { return h.owner }
func (h *funcHandler) Listener() Listener              { return nil }
func (h *funcHandler) Call(d *Dispatch, e Event) error { return h.call(d, e) }
func (h *funcHandler) key() handlerKey                 { return handlerKey{callable: h} }

func (h *funcHandler) String() string {
	return "func " + h.meta.String()
}

// NewHandler creates a callable handler for event type E without registering it.
func NewHandler[E Event](owner Owner, priority Priority, ignoreCancelled bool, fn HandlerFunc[E]) (RegisteredHandler, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	meta := Meta[E](priority, ignoreCancelled)
	if err := meta.validate(); err != nil {
		return nil, err
	}
	return &funcHandler{
		id:    uuid.New(),
		owner: owner,
		meta:  meta,
		call:  typed(fn),
	}, nil
}

// Listen creates a callable handler for event type E and registers it.
func Listen[E Event](r Registrar, owner Owner, priority Priority, ignoreCancelled bool, fn HandlerFunc[E]) (RegisteredHandler, error) {
	h, err := NewHandler(owner, priority, ignoreCancelled, fn)
	if err != nil {
		return nil, err
	}
	if err := r.Register(h); err != nil {
		return nil, err
	}
	return h, nil
}

// BindListener creates one handler per binding of l without registering them.
func BindListener(owner Owner, l Listener) ([]RegisteredHandler, error) {
	if l == nil {
		return nil, ErrNilHandler
	}
	if t := reflect.TypeOf(l); !t.Comparable() {
		return nil, fmt.Errorf("plex: listener %s is not comparable", t)
	}

	bindings := l.Bindings()
	handlers := make([]RegisteredHandler, 0, len(bindings))
	for _, b := range bindings {
		if b.call == nil {
			return nil, fmt.Errorf("%w: binding %q", ErrNilHandler, b.name)
		}
		if err := b.meta.validate(); err != nil {
			return nil, fmt.Errorf("binding %q: %w", b.name, err)
		}
		handlers = append(handlers, &methodHandler{
			id:       uuid.New(),
			owner:    owner,
			listener: l,
			binding:  b,
		})
	}
	return handlers, nil
}
