// Package api is the typed client for the campaign assistant backend.
// Each exported method wraps exactly one endpoint; none of them retry.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/campainly/campaigner/internal/transport"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/storage"
)

// Client calls the backend endpoints.
type Client struct {
	t *transport.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	store      storage.Storage
	token      transport.TokenSource
}

// WithHTTPClient sets the http.Client used for every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithStorage reads the bearer token from s on every call, so a login that
// lands while the client is alive takes effect immediately.
func WithStorage(s storage.Storage) Option {
	return func(o *options) { o.store = s }
}

// WithToken pins a bearer token.
func WithToken(token string) Option {
	return func(o *options) { o.token = transport.StaticToken(token) }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if baseURL == "" {
		baseURL = constants.DefaultAPIURL
	}

	var topts []transport.Option
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}
	switch {
	case o.token != nil:
		topts = append(topts, transport.WithTokenSource(o.token))
	case o.store != nil:
		s := o.store
		topts = append(topts, transport.WithTokenSource(func() string { return storage.AuthToken(s) }))
	}

	return &Client{t: transport.New(baseURL, topts...)}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.t.BaseURL()
}

// Origin returns scheme://host of the backend, the origin its pages post
// messages from.
func (c *Client) Origin() string {
	u, err := url.Parse(c.t.BaseURL())
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// ProxyURL rewrites a cross-origin media URL through the backend's media
// proxy. URLs already served by the backend, data URLs and blanks pass
// through unchanged.
func (c *Client) ProxyURL(raw string) string {
	if raw == "" || strings.HasPrefix(raw, "data:") || strings.HasPrefix(raw, "blob:") {
		return raw
	}
	if origin := c.Origin(); origin != "" && strings.HasPrefix(raw, origin+"/") {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return raw
	}
	return c.t.URL(constants.PathMediaProxy, url.Values{"url": {raw}})
}

// ID is a backend identifier that may arrive as a JSON number or string.
type ID string

// UnmarshalJSON accepts numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}
