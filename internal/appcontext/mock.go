package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/storage"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value: an
// in-memory store shared across calls and a client without a base URL.
type Mock struct {
	ClientFunc         func() (*api.Client, error)
	StorageFunc        func() (storage.Storage, error)
	LoggerFunc         func() *zerolog.Logger
	OutputFormatFunc   func() string
	AllowedOriginsFunc func() []string
	CallbackAddrFunc   func() string
	VersionFunc        func() string

	store storage.Storage
}

// Client returns a client using the mock function or a default client.
func (m *Mock) Client() (*api.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	s, _ := m.Storage()
	return api.New("", api.WithStorage(s)), nil
}

// Storage returns a store using the mock function or a memory store.
func (m *Mock) Storage() (storage.Storage, error) {
	if m.StorageFunc != nil {
		return m.StorageFunc()
	}
	if m.store == nil {
		m.store = storage.NewMemory()
	}
	return m.store, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// AllowedOrigins returns origins using the mock function or none.
func (m *Mock) AllowedOrigins() []string {
	if m.AllowedOriginsFunc != nil {
		return m.AllowedOriginsFunc()
	}
	return nil
}

// CallbackAddr returns the address using the mock function or a loopback
// ephemeral port.
func (m *Mock) CallbackAddr() string {
	if m.CallbackAddrFunc != nil {
		return m.CallbackAddrFunc()
	}
	return "127.0.0.1:0"
}

// Version returns the version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
