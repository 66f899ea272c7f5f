package conversation

import (
	"time"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/storage"
)

// CompletionPolicy decides what happens when the backend reports the
// conversation complete.
type CompletionPolicy int

// Completion policies.
const (
	// Ignore does nothing.
	Ignore CompletionPolicy = iota
	// ShowLogin appends an assistant message carrying the login action.
	ShowLogin
	// MarkComplete sets the complete flag.
	MarkComplete
)

// String returns the policy name.
func (p CompletionPolicy) String() string {
	switch p {
	case ShowLogin:
		return "show-login"
	case MarkComplete:
		return "mark-complete"
	}
	return "ignore"
}

// Option configures a Store.
type Option func(*config) error

type config struct {
	endpoint            api.Endpoint
	policy              CompletionPolicy
	storage             storage.Storage
	storageKey          string
	placeholders        []string
	placeholderInterval time.Duration
	errorText           string
	loginPromptText     string
}

func defaultConfig() *config {
	return &config{
		endpoint:            api.EndpointChat,
		policy:              Ignore,
		storageKey:          constants.KeyConversation,
		placeholders:        DefaultPlaceholders,
		placeholderInterval: constants.PlaceholderInterval,
		errorText:           ErrorText,
		loginPromptText:     LoginPromptText,
	}
}

// WithEndpoint selects the chat route.
func WithEndpoint(endpoint api.Endpoint) Option {
	return func(c *config) error {
		if endpoint == "" {
			return errors.NewValidationError("endpoint", endpoint, "endpoint cannot be empty")
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithCompletionPolicy sets the completion policy.
func WithCompletionPolicy(p CompletionPolicy) Option {
	return func(c *config) error {
		c.policy = p
		return nil
	}
}

// WithStorage persists the conversation to s after every change.
func WithStorage(s storage.Storage) Option {
	return func(c *config) error {
		c.storage = s
		return nil
	}
}

// WithStorageKey overrides the key the snapshot is saved under.
func WithStorageKey(key string) Option {
	return func(c *config) error {
		if key == "" {
			return errors.NewValidationError("storageKey", key, "storage key cannot be empty")
		}
		c.storageKey = key
		return nil
	}
}

// WithPlaceholders replaces the rotating input hints.
func WithPlaceholders(hints ...string) Option {
	return func(c *config) error {
		c.placeholders = hints
		return nil
	}
}

// WithPlaceholderInterval sets how often the input hint rotates.
func WithPlaceholderInterval(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.NewValidationError("placeholderInterval", d, "interval must be positive")
		}
		c.placeholderInterval = d
		return nil
	}
}
