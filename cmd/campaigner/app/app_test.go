package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/storage"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		APIURL:    "http://backend.test",
		StateFile: filepath.Join(t.TempDir(), "state.yaml"),
		LogFormat: "json",
		LogOutput: "discard",
	}
}

func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2024-01-01", "test", WithConfig(testConfig(t)))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2024-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Config())
}

func TestApp_StorageAndClientAreShared(t *testing.T) {
	cfg := testConfig(t)
	app, err := New("dev", "", "", "", WithConfig(cfg), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	const goroutines = 20
	clients := make([]any, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := app.Client()
			assert.NoError(t, err)
			clients[i] = c
		}()
	}
	wg.Wait()
	for _, c := range clients[1:] {
		assert.Same(t, clients[0], c)
	}

	s, err := app.Storage()
	require.NoError(t, err)
	file, ok := s.(*storage.File)
	require.True(t, ok)
	assert.Equal(t, cfg.StateFile, file.Path())
}

func TestApp_NoPersistUsesMemory(t *testing.T) {
	cfg := testConfig(t)
	cfg.NoPersist = true
	app, err := New("dev", "", "", "", WithConfig(cfg), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	s, err := app.Storage()
	require.NoError(t, err)
	_, ok := s.(*storage.Memory)
	assert.True(t, ok)
}

func TestApp_ClientSendsStoredToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[]}`))
	}))
	defer srv.Close()

	mem := storage.NewMemory()
	require.NoError(t, mem.Set(constants.KeyAuthToken, "tok"))

	cfg := testConfig(t)
	cfg.APIURL = srv.URL
	app, err := New("dev", "", "", "", WithConfig(cfg), WithStorage(mem), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	client, err := app.Client()
	require.NoError(t, err)
	_, err = client.FetchMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
}

func TestExecute_Version(t *testing.T) {
	app, err := New("1.2.3", "c0ffee", "today", "ci", WithConfig(testConfig(t)))
	require.NoError(t, err)

	root := app.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--long"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "campaigner 1.2.3")
	assert.Contains(t, out.String(), "c0ffee")
}

func TestExecute_FlagsOverrideConfig(t *testing.T) {
	app, err := New("dev", "", "", "", WithConfig(testConfig(t)))
	require.NoError(t, err)

	root := app.createRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--api-url", "http://other.test/", "--no-persist", "-o", "json", "version"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Equal(t, "http://other.test", app.Config().APIURL)
	assert.True(t, app.Config().NoPersist)
	assert.Equal(t, "json", app.OutputFormat())
}

func TestShutdown(t *testing.T) {
	app, err := New("dev", "", "", "", WithConfig(testConfig(t)))
	require.NoError(t, err)
	assert.NoError(t, app.Shutdown(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, app.Shutdown(ctx))
}
