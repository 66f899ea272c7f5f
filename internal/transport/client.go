// Package transport is the HTTP plumbing under pkg/api: base URL joining,
// bearer authentication from the stored token, and uniform classification
// of failures into transport, status and decoding errors.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client issues requests against one backend.
type Client struct {
	http    *http.Client
	baseURL string
	auth    Authenticator
	token   TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// New creates a transport client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    &BearerAuth{},
		token:   StaticToken(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token()
}

// URL joins path and optional query onto the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Request describes one call.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when non-nil.
	Body any

	// Raw, when set, is sent as-is with ContentType.
	Raw         io.Reader
	ContentType string

	// RequireAuth fails before sending when no token is stored.
	RequireAuth bool

	// Operation names the call in errors and logs.
	Operation string
}

// Do sends req and decodes a 2xx JSON answer into out (skipped when out is
// nil). Failures come back as *errors.TransportError, *errors.APIError or
// *errors.ParseError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	token := c.token()
	if req.RequireAuth && token == "" {
		return &errors.AuthRequiredError{Operation: req.Operation}
	}

	body := req.Raw
	contentType := req.ContentType
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return errors.WrapParse("json", req.Operation+" request", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.URL(req.Path, req.Query), body)
	if err != nil {
		return errors.WrapTransport(req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	c.auth.Apply(httpReq, token)

	log := logging.FromContext(logging.WithEndpoint(ctx, req.Path))
	log.Debug().
		Str("method", req.Method).
		Bool("auth", token != "").
		Msg("Sending backend request")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.WrapTransport(req.Path, err)
	}

	if err := DecodeResponse(resp, req.Path, out); err != nil {
		log.Debug().Err(err).Msg("Backend request failed")
		return err
	}
	return nil
}

// DecodeResponse checks the status and decodes a JSON body into target.
func DecodeResponse(resp *http.Response, endpoint string, target any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapTransport(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAPIError(endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}

// FilePart is one file of a multipart upload.
type FilePart struct {
	Name        string
	ContentType string
	Data        []byte
}

// Multipart encodes files under one form field and returns the body and
// its content type.
func Multipart(field string, files []FilePart) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+escapeQuotes(field)+`"; filename="`+escapeQuotes(f.Name)+`"`)
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.WrapParse("multipart", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", errors.WrapParse("multipart", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.WrapParse("multipart", field, err)
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
