package plex

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// HandlerMeta describes how a handler is registered.
// It is an immutable value; two metas are equal when all fields are equal.
type HandlerMeta struct {
	// Type is the declared event type the handler listens for
	Type reflect.Type

	// Priority is the tier the handler is called in
	Priority Priority

	// IgnoreCancelled skips the handler once the event has been cancelled
	IgnoreCancelled bool
}

// Meta returns the HandlerMeta for a handler of event type E.
func Meta[E Event](priority Priority, ignoreCancelled bool) HandlerMeta {
	return HandlerMeta{
		Type:            reflect.TypeFor[E](),
		Priority:        priority,
		IgnoreCancelled: ignoreCancelled,
	}
}

// String returns a compact description of the meta for logging.
func (m HandlerMeta) String() string {
	name := "<nil>"
	if m.Type != nil {
		name = m.Type.String()
	}
	return fmt.Sprintf("%s@%s(ignoreCancelled=%t)", name, m.Priority, m.IgnoreCancelled)
}

// validate checks that the meta can be placed in a HandlerList.
func (m HandlerMeta) validate() error {
	if m.Type == nil {
		return fmt.Errorf("%w: handler meta has no event type", ErrUndeclaredEvent)
	}
	if !m.Priority.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, m.Priority)
	}
	return nil
}

// Owner identifies who registered a handler, typically a plugin or a Bundle.
// Owners are compared by ID.
type Owner struct {
	ID   uuid.UUID
	Name string
}

// NewOwner creates an owner with a fresh random ID.
func NewOwner(name string) Owner {
	return Owner{ID: uuid.New(), Name: name}
}

// IsZero reports whether the owner is unset.
func (o Owner) IsZero() bool {
	return o.ID == uuid.Nil
}

// String returns the owner name for logging.
func (o Owner) String() string {
	if o.Name == "" {
		return o.ID.String()
	}
	return o.Name
}
