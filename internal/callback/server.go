// Package callback is the loopback HTTP server that stands in for the
// browser's cross-window messaging during login. The login page posts its
// outcome to /callback and reports a closed window on /closed; both are
// turned into oauth events for the handshake.
package callback

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/oauth"
)

// DefaultAddr listens on an ephemeral loopback port.
const DefaultAddr = "127.0.0.1:0"

const maxBody = 64 << 10

// Server receives login outcomes.
type Server struct {
	addr   string
	router chi.Router
	http   *http.Server

	mu     sync.Mutex
	ln     net.Listener
	subs   map[int]chan oauth.Event
	nextID int

	closed atomic.Bool
}

// New creates a server for addr. It does not listen until Start.
func New(addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{addr: addr, subs: make(map[int]chan oauth.Event)}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Post("/callback", s.handlePost)
	r.Get("/callback", s.handleGet)
	r.Get("/closed", s.handleClosed)
	r.Post("/closed", s.handleClosed)
	s.router = r

	s.http = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	return s
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.WrapIO("listen", s.addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Error().Err(err).Msg("Callback server stopped")
		}
	}()
	logging.Debug().Str("origin", s.Origin()).Msg("Callback server listening")
	return nil
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Origin implements oauth.Listener.
func (s *Server) Origin() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// CallbackURL is the address login pages should report to.
func (s *Server) CallbackURL() string {
	return s.Origin() + "/callback"
}

// Subscribe implements oauth.Listener.
func (s *Server) Subscribe() (<-chan oauth.Event, func()) {
	ch := make(chan oauth.Event, 4)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Closed implements oauth.Window for the browser window the server was
// opened for.
func (s *Server) Closed() bool {
	return s.closed.Load()
}

// resetWindow forgets a previous window's closure.
func (s *Server) resetWindow() {
	s.closed.Store(false)
}

func (s *Server) publish(ev oauth.Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	delivered := 0
	for _, ch := range s.subs {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil || !json.Valid(data) {
		http.Error(w, "invalid message", http.StatusBadRequest)
		return
	}
	s.publish(oauth.Event{Origin: requestOrigin(r), Data: data})
	w.WriteHeader(http.StatusAccepted)
}

// handleGet accepts the outcome as query parameters, for login pages that
// redirect instead of posting.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := oauth.Payload{Type: q.Get("type"), AccessToken: q.Get("access_token")}
	if p.Type == "" {
		http.Error(w, "missing type", http.StatusBadRequest)
		return
	}
	if q.Has("refresh_token") || q.Has("expires_at") {
		p.User = &oauth.User{
			RefreshToken: q.Get("refresh_token"),
			ExpiresAt:    oauth.StringOrNumber(q.Get("expires_at")),
		}
	}
	data, _ := json.Marshal(p)
	s.publish(oauth.Event{Origin: requestOrigin(r), Data: data})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, donePage)
}

func (s *Server) handleClosed(w http.ResponseWriter, _ *http.Request) {
	s.closed.Store(true)
	w.WriteHeader(http.StatusNoContent)
}

// requestOrigin is the Origin header, or the scheme and host of the
// Referer when a navigation carries no Origin.
func requestOrigin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" && o != "null" {
		return o
	}
	if ref := r.Header.Get("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Host != "" {
			return u.Scheme + "://" + u.Host
		}
	}
	return ""
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Callback request")
	})
}

const donePage = `<!doctype html><meta charset="utf-8"><title>campaigner</title>
<p>Login finished. You can close this window.</p>
<script>window.addEventListener("pagehide",function(){navigator.sendBeacon("/closed")});</script>`
