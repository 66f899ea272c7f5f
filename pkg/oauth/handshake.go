// Package oauth runs the provider login handshake: fetch the login URL,
// open it in a login window, then wait for exactly one outcome. The
// window reports back through a single message event whose origin must be
// allow-listed; a window closed without a message is detected by polling.
// Whichever comes first ends the handshake, and the listener and poll are
// torn down exactly once.
package oauth

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/storage"
	"github.com/campainly/campaigner/pkg/ticker"
)

// DefaultAllowedOrigins are the backend origins trusted to post the
// outcome, in addition to the listener's own origin.
var DefaultAllowedOrigins = []string{
	"http://localhost:8000",
	"https://campaigner-ai-backend.onrender.com",
}

// Outcome is how a handshake ended.
type Outcome int

// Outcomes.
const (
	// Succeeded means credentials were stored.
	Succeeded Outcome = iota
	// Failed means the window reported an error.
	Failed
	// Closed means the window closed without reporting.
	Closed
	// Cancelled means the context ended first.
	Cancelled
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	}
	return "cancelled"
}

// URLSource fetches the provider login URL. *api.Client satisfies it.
type URLSource interface {
	FacebookLoginURL(ctx context.Context, conversationID string) (string, error)
}

// Window is an opened login window.
type Window interface {
	Closed() bool
}

// Opener opens url in a login window of roughly width x height.
type Opener interface {
	Open(ctx context.Context, url string, width, height int) (Window, error)
}

// Listener delivers messages posted to this client.
type Listener interface {
	// Origin is this client's own origin, always allowed.
	Origin() string
	// Subscribe starts delivery; cancel stops it.
	Subscribe() (events <-chan Event, cancel func())
}

// Navigator moves the application to another page after login.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Handshake performs logins. A Handshake may run one login at a time.
type Handshake struct {
	urls     URLSource
	opener   Opener
	listener Listener
	store    storage.Storage
	nav      Navigator
	allowed  []string
	poll     time.Duration

	loading atomic.Bool
}

// Option configures a Handshake.
type Option func(*Handshake)

// WithAllowedOrigins replaces the trusted backend origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Handshake) { h.allowed = origins }
}

// WithNavigator sets where a successful login navigates.
func WithNavigator(nav Navigator) Option {
	return func(h *Handshake) { h.nav = nav }
}

// WithPollInterval sets how often the window is checked for closing.
func WithPollInterval(d time.Duration) Option {
	return func(h *Handshake) { h.poll = d }
}

// New creates a handshake that stores credentials in store.
func New(urls URLSource, opener Opener, listener Listener, store storage.Storage, opts ...Option) *Handshake {
	h := &Handshake{
		urls:     urls,
		opener:   opener,
		listener: listener,
		store:    store,
		allowed:  DefaultAllowedOrigins,
		poll:     constants.PopupPollInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsLoading reports whether a login is in progress.
func (h *Handshake) IsLoading() bool {
	return h.loading.Load()
}

// Allowed reports whether origin may post the outcome.
func (h *Handshake) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if h.listener != nil && origin == h.listener.Origin() {
		return true
	}
	return slices.Contains(h.allowed, origin)
}

// Login runs one handshake. Errors are returned for a failed URL fetch
// (backend failure), an unopenable window (*errors.PopupBlockedError) and
// a concurrent login (errors.ErrInFlight); every other ending is reported
// through the Outcome.
func (h *Handshake) Login(ctx context.Context, conversationID string) (Outcome, error) {
	if !h.loading.CompareAndSwap(false, true) {
		return Failed, errors.ErrInFlight
	}
	log := logging.FromContext(logging.WithOperation(ctx, "login"))

	url, err := h.urls.FacebookLoginURL(ctx, conversationID)
	if err != nil {
		h.loading.Store(false)
		log.Warn().Err(err).Msg("Failed to get login URL")
		return Failed, err
	}

	// subscribe before opening so an instant reply is not missed
	events, unsubscribe := h.listener.Subscribe()

	win, err := h.opener.Open(ctx, url, constants.PopupWidth, constants.PopupHeight)
	if err != nil || win == nil {
		unsubscribe()
		h.loading.Store(false)
		return Failed, &errors.PopupBlockedError{URL: url, Err: err}
	}

	closed := make(chan struct{})
	var closeOnce sync.Once
	poll := ticker.Start(h.poll, func() {
		if win.Closed() {
			closeOnce.Do(func() { close(closed) })
		}
	})

	var once sync.Once
	finish := func(o Outcome) Outcome {
		once.Do(func() {
			poll.Stop()
			unsubscribe()
			h.loading.Store(false)
			log.Debug().Stringer("outcome", o).Msg("Login handshake finished")
		})
		return o
	}

	for {
		select {
		case <-ctx.Done():
			return finish(Cancelled), ctx.Err()
		case <-closed:
			return finish(Closed), nil
		case ev, ok := <-events:
			if !ok {
				return finish(Closed), nil
			}
			if !h.Allowed(ev.Origin) {
				log.Debug().Str("origin", ev.Origin).Msg("Ignoring message from untrusted origin")
				continue
			}
			var p Payload
			if err := json.Unmarshal(ev.Data, &p); err != nil {
				log.Debug().Err(err).Msg("Ignoring undecodable login message")
				continue
			}
			switch p.Type {
			case TypeSuccess:
				h.storeCredentials(p)
				finish(Succeeded)
				if h.nav != nil {
					h.nav.Navigate(constants.AppPath)
				}
				return Succeeded, nil
			case TypeError:
				return finish(Failed), nil
			}
		}
	}
}

// storeCredentials replaces every stored credential with the ones in p.
func (h *Handshake) storeCredentials(p Payload) {
	if h.store == nil {
		return
	}
	storage.ClearAuth(h.store)

	set := func(value string, keys ...string) {
		if value == "" {
			return
		}
		for _, k := range keys {
			_ = h.store.Set(k, value)
		}
	}
	set(p.Token(), constants.KeyAuthToken, constants.KeyFacebookAccessToken)
	if p.User != nil {
		set(p.User.RefreshToken, constants.KeyRefreshToken, constants.KeyFacebookRefreshToken)
		set(string(p.User.ExpiresAt), constants.KeyTokenExpiresAt, constants.KeyFacebookExpiresAt)
	}
}
