package plex

import (
	"fmt"
	"reflect"
	"sync"
)

// Declaration declares one event type in a Registry. See Declare and DeclareChild.
type Declaration func(r *Registry) error

// Declare declares E as an event type with its own HandlerList.
func Declare[E Event]() Declaration {
	return func(r *Registry) error {
		return r.declare(reflect.TypeFor[E](), nil)
	}
}

// DeclareChild declares E as a child of the already declared P. Both share P's
// HandlerList, so handlers registered for P also receive E. P is usually an
// interface implemented by all of its children.
func DeclareChild[E, P Event]() Declaration {
	return func(r *Registry) error {
		return r.declare(reflect.TypeFor[E](), reflect.TypeFor[P]())
	}
}

// Registry is the table from declared event types to their HandlerLists.
// It is built at startup from declarations and is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	// lists maps every declared type to its list; children map to their parent's list
	lists map[reflect.Type]*HandlerList

	// roots holds each distinct list once, in declaration order
	roots []*HandlerList
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		lists: make(map[reflect.Type]*HandlerList),
	}
}

// Declare applies the given declarations in order.
func (r *Registry) Declare(decls ...Declaration) error {
	for _, d := range decls {
		if err := d(r); err != nil {
			return err
		}
	}
	return nil
}

// declare adds t to the table, sharing parent's list if parent is non-nil.
func (r *Registry) declare(t, parent reflect.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[t]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyDeclared, t)
	}

	if parent == nil {
		l := newHandlerList(t)
		r.lists[t] = l
		r.roots = append(r.roots, l)
		return nil
	}

	l, ok := r.lists[parent]
	if !ok {
		return fmt.Errorf("%w: parent %s of %s", ErrUndeclaredEvent, parent, t)
	}
	if !t.AssignableTo(parent) {
		return fmt.Errorf("plex: %s cannot be declared as a child of %s", t, parent)
	}
	r.lists[t] = l
	return nil
}

// Declared reports whether t has been declared.
func (r *Registry) Declared(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lists[t]
	return ok
}

// HandlerList returns the list for a declared type.
func (r *Registry) HandlerList(t reflect.Type) (*HandlerList, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lists[t]
	return l, ok
}

// HandlerListFor returns the list for event type E.
func HandlerListFor[E Event](r *Registry) (*HandlerList, bool) {
	return r.HandlerList(reflect.TypeFor[E]())
}

// listFor returns the list that the runtime type of e dispatches to.
func (r *Registry) listFor(e Event) (*HandlerList, error) {
	t := reflect.TypeOf(e)
	l, ok := r.HandlerList(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndeclaredEvent, t)
	}
	return l, nil
}

// Lists returns every distinct HandlerList in declaration order.
func (r *Registry) Lists() []*HandlerList {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*HandlerList, len(r.roots))
	copy(out, r.roots)
	return out
}

// Register places h in the list of its declared event type.
func (r *Registry) Register(h RegisteredHandler) error {
	if h == nil {
		return ErrNilHandler
	}
	meta := h.Meta()
	if err := meta.validate(); err != nil {
		return err
	}
	l, ok := r.HandlerList(meta.Type)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUndeclaredEvent, meta.Type)
	}
	return l.Register(h)
}

// RegisterListener binds and registers every handler of l. Either all handlers
// are registered or none are.
func (r *Registry) RegisterListener(owner Owner, l Listener) ([]RegisteredHandler, error) {
	handlers, err := BindListener(owner, l)
	if err != nil {
		return nil, err
	}

	for i, h := range handlers {
		if err := r.Register(h); err != nil {
			for _, done := range handlers[:i] {
				r.Unregister(done)
			}
			return nil, fmt.Errorf("register %T: %w", l, err)
		}
	}
	return handlers, nil
}

// Unregister removes h from its list. It returns true if it was present.
func (r *Registry) Unregister(h RegisteredHandler) bool {
	if h == nil {
		return false
	}
	l, ok := r.HandlerList(h.Meta().Type)
	if !ok {
		return false
	}
	return l.Unregister(h)
}

// UnregisterFunc removes every handler, in every list, for which match returns true.
func (r *Registry) UnregisterFunc(match func(RegisteredHandler) bool) int {
	removed := 0
	for _, l := range r.Lists() {
		removed += l.UnregisterFunc(match)
	}
	return removed
}

// UnregisterOwner removes every handler registered by owner.
func (r *Registry) UnregisterOwner(owner Owner) int {
	return r.UnregisterFunc(func(h RegisteredHandler) bool {
		return h.Owner().ID == owner.ID
	})
}

// UnregisterListener removes every handler bound to l.
func (r *Registry) UnregisterListener(l Listener) int {
	return r.UnregisterFunc(func(h RegisteredHandler) bool {
		return h.Listener() != nil && h.Listener() == l
	})
}

// UnregisterAll removes every handler from every list.
func (r *Registry) UnregisterAll() {
	for _, l := range r.Lists() {
		l.Clear()
	}
}

// BakeAll bakes every list ahead of dispatch.
func (r *Registry) BakeAll() {
	for _, l := range r.Lists() {
		l.Bake()
	}
}

// RegisteredListeners returns every handler registered by owner, grouped by list
// in declaration order.
func (r *Registry) RegisteredListeners(owner Owner) []RegisteredHandler {
	var out []RegisteredHandler
	for _, l := range r.Lists() {
		for _, h := range l.Bake() {
			if h.Owner().ID == owner.ID {
				out = append(out, h)
			}
		}
	}
	return out
}
