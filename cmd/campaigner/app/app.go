// Package app provides the application context and dependency management
// for the campaigner CLI: configuration, logging, the session store and
// the backend client, created once and shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campainly/campaigner/internal/appcontext"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/storage"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the campaigner application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazily created, then shared.
	mu      sync.Mutex
	storage storage.Storage
	client  *api.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, &errors.ConfigError{Component: "app", Message: "load config", Err: err}
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// AllowedOrigins returns the configured login origins.
func (a *App) AllowedOrigins() []string {
	return a.config.AllowedOrigins
}

// CallbackAddr returns the login callback listen address.
func (a *App) CallbackAddr() string {
	return a.config.CallbackAddr
}

// Storage returns the session store, opening it on first use. With
// --no-persist the store lives in memory only.
func (a *App) Storage() (storage.Storage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.storageLocked()
}

func (a *App) storageLocked() (storage.Storage, error) {
	if a.storage != nil {
		return a.storage, nil
	}
	if a.config.NoPersist || a.config.StateFile == "" {
		a.storage = storage.NewMemory()
		return a.storage, nil
	}
	s, err := storage.OpenFile(a.config.StateFile)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("path", s.Path()).Msg("Session state opened")
	a.storage = s
	return s, nil
}

// Client returns the backend client, creating it on first use.
func (a *App) Client() (*api.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}
	s, err := a.storageLocked()
	if err != nil {
		return nil, err
	}
	a.client = api.New(a.config.APIURL, api.WithStorage(s))
	return a.client, nil
}

// Shutdown performs graceful shutdown of the application. The file store
// writes through on every change, so there is nothing to flush.
func (a *App) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.logger.Debug().Msg("Shutdown complete")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStorage sets the session store (useful for testing).
func WithStorage(s storage.Storage) Option {
	return func(a *App) error {
		a.storage = s
		return nil
	}
}
