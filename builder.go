package plex

import (
	"log/slog"
)

// Builder configures a Bus before it is created.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	config    Config
	logger    *slog.Logger
	onError   ExceptionHandler
	events    []Declaration
	bundles   []*Bundle
	autoStart bool
}

// NewBuilder creates a new builder with DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// Config replaces the configuration.
func (b *Builder) Config(c Config) *Builder {
	b.config = c
	return b
}

// Logger sets the logger used for registration and handler failure logs.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// ExceptionHandler replaces the default handler failure logger.
func (b *Builder) ExceptionHandler(fn ExceptionHandler) *Builder {
	b.onError = fn
	return b
}

// Events adds event declarations.
func (b *Builder) Events(decls ...Declaration) *Builder {
	b.events = append(b.events, decls...)
	return b
}

// Bundle adds a bundle to the builder.
func (b *Builder) Bundle(bundle *Bundle) *Builder {
	b.bundles = append(b.bundles, bundle)
	return b
}

// StartAsync makes Build start the async worker pool.
func (b *Builder) StartAsync() *Builder {
	b.autoStart = true
	return b
}

// Build creates the bus. Declarations are applied first, then bundles are
// registered in order, then post-init hooks run.
// It panics if a declaration or registration fails, as these are programming errors.
func (b *Builder) Build() *Bus {
	bus := NewBus(b.config)
	if b.logger != nil {
		bus.log = b.logger
	}
	if b.onError != nil {
		bus.onError = b.onError
	}

	if err := bus.Declare(b.events...); err != nil {
		panic("plex: failed to declare events: " + err.Error())
	}
	for _, bundle := range b.bundles {
		if err := bus.Declare(bundle.events...); err != nil {
			panic("plex: failed to declare events of bundle " + bundle.Name() + ": " + err.Error())
		}
	}

	var hooks []func(*Bus)
	for _, bundle := range b.bundles {
		if err := bundle.register(bus); err != nil {
			panic("plex: failed to register bundle " + bundle.Name() + ": " + err.Error())
		}
		hooks = append(hooks, bundle.postInitHooks...)
	}

	bus.registry.BakeAll()
	if b.autoStart {
		bus.Start()
	}

	for _, hook := range hooks {
		hook(bus)
	}
	return bus
}
