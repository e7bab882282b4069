package plex

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// HandlerList holds the handlers of one declared event type (or of a family of
// types sharing a list), bucketed by priority.
//
// The buckets are baked lazily into a flat slice ordered by priority, then by
// insertion order. The baked slice is cached until the next register or unregister.
type HandlerList struct {
	// typ is the declared type that owns the list
	typ reflect.Type

	// mu protects buckets and baking
	mu      sync.Mutex
	buckets [priorityCount][]RegisteredHandler

	// baked is nil when the cache has been invalidated
	baked atomic.Pointer[bakedList]
}

// bakedList is an immutable snapshot of a HandlerList.
type bakedList struct {
	handlers []RegisteredHandler

	// tiers[p] is the sub-slice of handlers at priority p
	tiers [priorityCount][]RegisteredHandler
	mask  tierMask
}

// newHandlerList creates an empty list for the given type.
func newHandlerList(t reflect.Type) *HandlerList {
	return &HandlerList{typ: t}
}

// Type returns the declared event type that owns the list.
func (l *HandlerList) Type() reflect.Type {
	return l.typ
}

// Register adds a handler at the priority given by its meta.
// It returns ErrDuplicateHandler if an equal handler is already registered at that priority.
func (l *HandlerList) Register(h RegisteredHandler) error {
	if h == nil {
		return ErrNilHandler
	}
	meta := h.Meta()
	if err := meta.validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := h.key()
	for _, existing := range l.buckets[meta.Priority] {
		if existing.key() == key {
			return ErrDuplicateHandler
		}
	}

	l.buckets[meta.Priority] = append(l.buckets[meta.Priority], h)
	l.baked.Store(nil)
	return nil
}

// Unregister removes the handler. It returns true if it was present.
func (l *HandlerList) Unregister(h RegisteredHandler) bool {
	if h == nil {
		return false
	}
	key := h.key()
	return l.UnregisterFunc(func(r RegisteredHandler) bool {
		return r.key() == key && r.Meta().Priority == h.Meta().Priority
	}) > 0
}

// UnregisterFunc removes every handler for which match returns true and returns
// how many were removed.
func (l *HandlerList) UnregisterFunc(match func(RegisteredHandler) bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for p := range l.buckets {
		bucket := l.buckets[p]
		kept := bucket[:0]
		for _, h := range bucket {
			if match(h) {
				removed++
				continue
			}
			kept = append(kept, h)
		}
		// Clear the tail so removed handlers can be collected.
		for i := len(kept); i < len(bucket); i++ {
			bucket[i] = nil
		}
		l.buckets[p] = kept
	}

	if removed > 0 {
		l.baked.Store(nil)
	}
	return removed
}

// Clear removes every handler.
func (l *HandlerList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for p := range l.buckets {
		l.buckets[p] = nil
	}
	l.baked.Store(nil)
}

// Bake returns the handlers ordered by priority, then insertion order.
// The result is cached and must not be modified.
func (l *HandlerList) Bake() []RegisteredHandler {
	return l.bake().handlers
}

// Handlers is an alias for Bake.
func (l *HandlerList) Handlers() []RegisteredHandler {
	return l.Bake()
}

// HandlersAt returns the handlers of a single priority tier.
func (l *HandlerList) HandlersAt(p Priority) []RegisteredHandler {
	if !p.Valid() {
		return nil
	}
	return l.bake().tiers[p]
}

// Len returns the number of registered handlers.
func (l *HandlerList) Len() int {
	return len(l.bake().handlers)
}

// bake returns the cached snapshot, building it on a miss.
func (l *HandlerList) bake() *bakedList {
	// Fast path: lock-free read of the cache
	if b := l.baked.Load(); b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another goroutine may have baked while we waited
	if b := l.baked.Load(); b != nil {
		return b
	}

	total := 0
	for _, bucket := range l.buckets {
		total += len(bucket)
	}

	b := &bakedList{handlers: make([]RegisteredHandler, 0, total)}
	for p, bucket := range l.buckets {
		start := len(b.handlers)
		b.handlers = append(b.handlers, bucket...)
		b.tiers[p] = b.handlers[start:len(b.handlers):len(b.handlers)]
		if len(bucket) > 0 {
			b.mask.set(Priority(p))
		}
	}

	l.baked.Store(b)
	return b
}
