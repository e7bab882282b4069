package plex

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/caarlos0/env/v11"
)

// Config holds the tunables of a Bus. LoadConfig reads it from PLEX_* environment
// variables; DefaultConfig returns the same defaults without touching the environment.
type Config struct {
	// EnforcePrimary rejects sync events dispatched from a context that was not
	// marked with WithPrimary.
	EnforcePrimary bool `env:"ENFORCE_PRIMARY" envDefault:"false"`

	// AsyncWorkers is the number of goroutines serving Post. Zero means GOMAXPROCS.
	AsyncWorkers int `env:"ASYNC_WORKERS" envDefault:"0"`

	// AsyncQueue is the capacity of the Post queue. Zero means four per worker.
	AsyncQueue int `env:"ASYNC_QUEUE" envDefault:"0"`

	// LogLevel sets the level of a bus-owned text logger on stderr. Empty keeps
	// slog.Default.
	LogLevel string `env:"LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig parses the configuration from the environment.
func LoadConfig() (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Prefix: "PLEX_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.AsyncWorkers < 0 || c.AsyncQueue < 0 {
		return Config{}, fmt.Errorf("parse env: negative async pool size")
	}
	if _, err := c.level(); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// workers returns the effective worker count.
func (c Config) workers() int {
	if c.AsyncWorkers > 0 {
		return c.AsyncWorkers
	}
	return max(runtime.GOMAXPROCS(0), 1)
}

// queue returns the effective queue capacity.
func (c Config) queue() int {
	if c.AsyncQueue > 0 {
		return c.AsyncQueue
	}
	return c.workers() * 4
}

// level parses LogLevel.
func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// logger returns the logger selected by LogLevel.
func (c Config) logger() *slog.Logger {
	if c.LogLevel == "" {
		return slog.Default()
	}
	l, err := c.level()
	if err != nil {
		return slog.Default()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
