package oauth

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/storage"
)

const ownOrigin = "http://127.0.0.1:7777"

type staticURL struct {
	url string
	err error
}

func (s staticURL) FacebookLoginURL(context.Context, string) (string, error) { return s.url, s.err }

type fakeWindow struct{ closed atomic.Bool }

func (w *fakeWindow) Closed() bool { return w.closed.Load() }

type fakeOpener struct {
	win    *fakeWindow
	err    error
	opened chan string
}

func (o *fakeOpener) Open(_ context.Context, url string, width, height int) (Window, error) {
	if o.err != nil {
		return nil, o.err
	}
	if o.opened != nil {
		o.opened <- url
	}
	return o.win, nil
}

type fakeListener struct {
	mu           sync.Mutex
	ch           chan Event
	unsubscribed int
}

func newListener() *fakeListener { return &fakeListener{ch: make(chan Event, 8)} }

func (l *fakeListener) Origin() string { return ownOrigin }

func (l *fakeListener) Subscribe() (<-chan Event, func()) {
	return l.ch, func() {
		l.mu.Lock()
		l.unsubscribed++
		l.mu.Unlock()
	}
}

func (l *fakeListener) post(origin string, payload any) {
	data, _ := json.Marshal(payload)
	l.ch <- Event{Origin: origin, Data: data}
}

func (l *fakeListener) unsubscribeCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unsubscribed
}

func setup(opts ...Option) (*Handshake, *fakeListener, *fakeWindow, storage.Storage) {
	l := newListener()
	w := &fakeWindow{}
	store := storage.NewMemory()
	opts = append([]Option{WithPollInterval(5 * time.Millisecond)}, opts...)
	h := New(staticURL{url: "https://provider/auth"}, &fakeOpener{win: w}, l, store, opts...)
	return h, l, w, store
}

func TestLogin_Success(t *testing.T) {
	var navigated []string
	h, l, _, store := setup(WithNavigator(NavigatorFunc(func(p string) { navigated = append(navigated, p) })))
	require.NoError(t, store.Set(constants.KeyTikTokAuthToken, "stale"))

	l.post("http://localhost:8000", map[string]any{
		"type": TypeSuccess,
		"user": map[string]any{"access_token": "tok", "refresh_token": "ref", "expires_at": 1700000000},
	})

	outcome, err := h.Login(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, Succeeded, outcome)
	assert.False(t, h.IsLoading())
	assert.Equal(t, []string{constants.AppPath}, navigated)
	assert.Equal(t, 1, l.unsubscribeCount())

	for key, want := range map[string]string{
		constants.KeyAuthToken:            "tok",
		constants.KeyFacebookAccessToken:  "tok",
		constants.KeyRefreshToken:         "ref",
		constants.KeyFacebookRefreshToken: "ref",
		constants.KeyTokenExpiresAt:       "1700000000",
		constants.KeyFacebookExpiresAt:    "1700000000",
	} {
		got, ok := store.Get(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := store.Get(constants.KeyTikTokAuthToken)
	assert.False(t, ok)
}

func TestLogin_TopLevelTokenWins(t *testing.T) {
	h, l, _, store := setup()
	l.post(ownOrigin, map[string]any{
		"type":         TypeSuccess,
		"access_token": "top",
		"user":         map[string]any{"access_token": "nested"},
	})

	_, err := h.Login(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "top", storage.AuthToken(store))
}

func TestLogin_DisallowedOriginIgnored(t *testing.T) {
	h, l, w, store := setup()
	require.NoError(t, store.Set(constants.KeyAuthToken, "existing"))

	l.post("https://evil.example", map[string]any{"type": TypeSuccess, "access_token": "stolen"})
	l.post("https://evil.example", map[string]any{"type": TypeError})

	go func() {
		time.Sleep(30 * time.Millisecond)
		w.closed.Store(true)
	}()

	outcome, err := h.Login(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Closed, outcome)
	assert.Equal(t, "existing", storage.AuthToken(store))
	assert.False(t, h.IsLoading())
}

func TestLogin_ErrorEvent(t *testing.T) {
	h, l, _, store := setup()
	l.post(ownOrigin, map[string]any{"type": TypeError})

	outcome, err := h.Login(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Failed, outcome)
	assert.Equal(t, "", storage.AuthToken(store))
	assert.Equal(t, 1, l.unsubscribeCount())
}

func TestLogin_WindowClosed(t *testing.T) {
	h, l, w, _ := setup()
	w.closed.Store(true)

	outcome, err := h.Login(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Closed, outcome)
	assert.Equal(t, 1, l.unsubscribeCount())
}

func TestLogin_PopupBlocked(t *testing.T) {
	l := newListener()
	h := New(staticURL{url: "https://provider/auth"}, &fakeOpener{err: errors.New("no display")}, l, storage.NewMemory())

	_, err := h.Login(context.Background(), "")
	assert.True(t, errors.IsPopupBlocked(err))
	assert.False(t, h.IsLoading())
	assert.Equal(t, 1, l.unsubscribeCount())
}

func TestLogin_URLFailure(t *testing.T) {
	h := New(staticURL{err: errors.NewAPIError(constants.PathFacebookLogin, 500, "")}, &fakeOpener{}, newListener(), storage.NewMemory())
	_, err := h.Login(context.Background(), "")
	assert.True(t, errors.IsStatus(err))
	assert.False(t, h.IsLoading())
}

func TestLogin_Cancelled(t *testing.T) {
	h, _, _, _ := setup()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	outcome, err := h.Login(ctx, "")
	assert.Equal(t, Cancelled, outcome)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, h.IsLoading())
}

func TestLogin_InFlight(t *testing.T) {
	l := newListener()
	opener := &fakeOpener{win: &fakeWindow{}, opened: make(chan string, 1)}
	h := New(staticURL{url: "u"}, opener, l, storage.NewMemory(), WithPollInterval(5*time.Millisecond))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.Login(context.Background(), "")
	}()
	<-opener.opened

	_, err := h.Login(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrInFlight)

	l.post(ownOrigin, map[string]any{"type": TypeError})
	<-done
}

func TestAllowed(t *testing.T) {
	h, _, _, _ := setup(WithAllowedOrigins("https://api.example"))
	assert.True(t, h.Allowed(ownOrigin))
	assert.True(t, h.Allowed("https://api.example"))
	assert.False(t, h.Allowed("http://localhost:8000"))
	assert.False(t, h.Allowed(""))
}
