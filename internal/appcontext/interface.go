// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than the
// concrete App so they can be tested against a mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/storage"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Client returns the backend client, creating it lazily. Its bearer
	// token is read from Storage on every request.
	Client() (*api.Client, error)

	// Storage returns the session store holding credentials and the
	// conversation snapshot.
	Storage() (storage.Storage, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// AllowedOrigins lists the origins a login result is accepted from,
	// besides the callback server itself.
	AllowedOrigins() []string

	// CallbackAddr is the listen address of the login callback server.
	CallbackAddr() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
