package plex

// Bundle groups related listeners and handlers under one Owner.
// Bundles are registered with the builder and can be removed from a bus as a unit.
type Bundle struct {
	owner Owner

	// listeners holds listener registrations
	listeners []Listener

	// handlers holds callable handler registrations
	handlers []func(Owner) (RegisteredHandler, error)

	// events holds declarations contributed by this bundle
	events []Declaration

	postInitHooks []func(*Bus)

	// registered holds the handlers placed on the bus by register
	registered []RegisteredHandler
}

// NewBundle creates a new bundle with the given name and a fresh Owner.
func NewBundle(name string) *Bundle {
	return &Bundle{owner: NewOwner(name)}
}

// Name returns the bundle name.
func (b *Bundle) Name() string {
	return b.owner.Name
}

// Owner returns the owner used for every handler of the bundle.
func (b *Bundle) Owner() Owner {
	return b.owner
}

// Events adds event declarations. They are applied before any handler of any
// bundle is registered.
func (b *Bundle) Events(decls ...Declaration) *Bundle {
	b.events = append(b.events, decls...)
	return b
}

// Listener adds a listener to the bundle.
func (b *Bundle) Listener(l Listener) *Bundle {
	b.listeners = append(b.listeners, l)
	return b
}

// Handle adds a callable handler for event type E to the bundle.
func Handle[E Event](b *Bundle, priority Priority, ignoreCancelled bool, fn HandlerFunc[E]) *Bundle {
	b.handlers = append(b.handlers, func(o Owner) (RegisteredHandler, error) {
		return NewHandler(o, priority, ignoreCancelled, fn)
	})
	return b
}

// PostInit adds a hook that runs after the bus has been built.
func (b *Bundle) PostInit(hook func(*Bus)) *Bundle {
	b.postInitHooks = append(b.postInitHooks, hook)
	return b
}

// Handlers returns the handlers the bundle placed on the bus.
func (b *Bundle) Handlers() []RegisteredHandler {
	return b.registered
}

// register places every listener and handler of the bundle on bus.
func (b *Bundle) register(bus *Bus) error {
	for _, l := range b.listeners {
		hs, err := bus.RegisterListener(b.owner, l)
		if err != nil {
			return err
		}
		b.registered = append(b.registered, hs...)
	}

	for _, mk := range b.handlers {
		h, err := mk(b.owner)
		if err != nil {
			return err
		}
		if err := bus.Register(h); err != nil {
			return err
		}
		b.registered = append(b.registered, h)
	}
	return nil
}

// Unload removes every handler of the bundle from bus.
func (b *Bundle) Unload(bus *Bus) int {
	b.registered = nil
	return bus.UnregisterOwner(b.owner)
}
