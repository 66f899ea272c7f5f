// Package cmdtest provides a fake campaign backend and app context for
// command tests.
package cmdtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/campainly/campaigner/internal/appcontext"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/storage"
)

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// Backend answers the campaign API with canned responses and records every
// request. Set the fields before the first request.
type Backend struct {
	Server *httptest.Server

	// Reply is the chat answer; IsComplete marks it final.
	Reply      string
	IsComplete bool
	// History is returned by GET /messages.
	History []api.StoredMessage
	// Strategy is the raw JSON returned for strategy generation.
	Strategy string
	// MediaURLs is returned by an upload.
	MediaURLs []string
	// CampaignID is returned by a save.
	CampaignID string

	mu       sync.Mutex
	requests []Request
}

// NewBackend starts a backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{Reply: "ok", CampaignID: "cmp-1", Strategy: `{"message":""}`}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Post(constants.PathChat, b.chat)
	r.Post(constants.PathStrategyChat, b.chat)
	r.Post(constants.PathBriefAndMedia, func(w http.ResponseWriter, _ *http.Request) {
		writeRaw(w, b.Strategy)
	})
	r.Get(constants.PathMessages, func(w http.ResponseWriter, _ *http.Request) {
		history := b.History
		if history == nil {
			history = []api.StoredMessage{}
		}
		writeJSON(w, map[string]any{"messages": history})
	})
	r.Post(constants.PathAds, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"ad_id": 1, "media_urls": b.MediaURLs})
	})
	r.Post(constants.PathCampaignSave, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"campaign_id": b.CampaignID})
	})
	r.Get(constants.PathFacebookLogin, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"url": b.Server.URL + "/provider?conversation_id=" + r.URL.Query().Get("conversation_id")})
	})
	r.Post(constants.PathContactDetails, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	})

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) chat(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, api.ChatResponse{Message: b.Reply, ConversationID: "conv-1", IsComplete: b.IsComplete})
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Requests returns the recorded requests to path.
func (b *Backend) Requests(path string) []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Request
	for _, r := range b.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// App returns an app context talking to the backend. A non-empty token is
// stored as the signed-in user's credential.
func (b *Backend) App(t testing.TB, token string) *appcontext.Mock {
	t.Helper()
	store := storage.NewMemory()
	if token != "" {
		if err := store.Set(constants.KeyAuthToken, token); err != nil {
			t.Fatal(err)
		}
	}
	client := api.New(b.Server.URL, api.WithStorage(store))
	return &appcontext.Mock{
		ClientFunc:  func() (*api.Client, error) { return client, nil },
		StorageFunc: func() (storage.Storage, error) { return store, nil },
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}
