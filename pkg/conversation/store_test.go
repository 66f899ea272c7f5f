package conversation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/storage"
	"github.com/campainly/campaigner/pkg/types"
)

// fakeChatter replays canned replies and records requests.
type fakeChatter struct {
	mu      sync.Mutex
	replies []*api.ChatResponse
	errs    []error
	calls   []call
}

type call struct {
	endpoint       api.Endpoint
	message        string
	conversationID string
}

func (f *fakeChatter) SendChat(_ context.Context, endpoint api.Endpoint, message, conversationID string) (*api.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.calls)
	f.calls = append(f.calls, call{endpoint, message, conversationID})
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return &api.ChatResponse{Message: "ok"}, nil
}

func newStore(t *testing.T, chat Chatter, opts ...Option) *Store {
	t.Helper()
	s, err := New(chat, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSend_GrowsByTwo(t *testing.T) {
	chat := &fakeChatter{
		replies: []*api.ChatResponse{{Message: "hello", ConversationID: "c1"}, nil, {Message: "again"}},
		errs:    []error{nil, errors.NewAPIError("/chat", 500, "boom"), nil},
	}
	s := newStore(t, chat)
	ctx := context.Background()

	_, err := s.Send(ctx, "hi")
	require.NoError(t, err)
	assert.Len(t, s.Messages(), 2)

	_, err = s.Send(ctx, "still there?")
	assert.True(t, errors.IsStatus(err))
	msgs := s.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, types.RoleAssistant, msgs[3].Role)
	assert.Equal(t, ErrorText, msgs[3].Content)

	_, err = s.Send(ctx, "third")
	require.NoError(t, err)
	assert.Len(t, s.Messages(), 6)
	assert.False(t, s.IsLoading())
}

func TestSend_BlankIsNoop(t *testing.T) {
	chat := &fakeChatter{}
	s := newStore(t, chat, WithPlaceholders())

	var fired atomic.Int32
	s.OnChange(func(Snapshot) { fired.Add(1) })

	for _, text := range []string{"", "   ", "\n\t"} {
		resp, err := s.Send(context.Background(), text)
		assert.NoError(t, err)
		assert.Nil(t, resp)
	}
	assert.Empty(t, s.Messages())
	assert.Empty(t, chat.calls)
	assert.Zero(t, fired.Load())
}

func TestSend_AdoptsConversationID(t *testing.T) {
	chat := &fakeChatter{replies: []*api.ChatResponse{
		{Message: "a", ConversationID: "c1"},
		{Message: "b", ConversationID: ""},
		{Message: "c", ConversationID: "c2"},
	}}
	s := newStore(t, chat, WithEndpoint(api.EndpointStrategy))
	ctx := context.Background()

	_, _ = s.Send(ctx, "1")
	assert.Equal(t, "c1", s.ConversationID())
	_, _ = s.Send(ctx, "2")
	assert.Equal(t, "c1", s.ConversationID())
	_, _ = s.Send(ctx, "3")
	assert.Equal(t, "c2", s.ConversationID())

	require.Len(t, chat.calls, 3)
	assert.Equal(t, api.EndpointStrategy, chat.calls[0].endpoint)
	assert.Equal(t, "", chat.calls[0].conversationID)
	assert.Equal(t, "c1", chat.calls[1].conversationID)
	assert.Equal(t, "c1", chat.calls[2].conversationID)
}

func TestSend_EmptyReply(t *testing.T) {
	s := newStore(t, &fakeChatter{replies: []*api.ChatResponse{{}}})
	_, err := s.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, EmptyReplyText, s.Messages()[1].Content)
}

func TestCompletionPolicies(t *testing.T) {
	done := func() *fakeChatter {
		return &fakeChatter{replies: []*api.ChatResponse{{Message: "done", IsComplete: true}}}
	}

	t.Run("show login", func(t *testing.T) {
		s := newStore(t, done(), WithCompletionPolicy(ShowLogin))
		_, _ = s.Send(context.Background(), "hi")
		msgs := s.Messages()
		require.Len(t, msgs, 2)
		assert.True(t, msgs[1].ShowFacebookLogin)
		assert.False(t, s.IsComplete())
	})

	t.Run("mark complete", func(t *testing.T) {
		s := newStore(t, done(), WithCompletionPolicy(MarkComplete))
		_, _ = s.Send(context.Background(), "hi")
		assert.True(t, s.IsComplete())
		assert.False(t, s.Messages()[1].ShowFacebookLogin)
	})

	t.Run("ignore", func(t *testing.T) {
		s := newStore(t, done())
		_, _ = s.Send(context.Background(), "hi")
		assert.False(t, s.IsComplete())
		assert.False(t, s.Messages()[1].ShowFacebookLogin)
	})
}

func TestSendInput(t *testing.T) {
	chat := &fakeChatter{}
	s := newStore(t, chat)

	s.SetInput("  ")
	_, _ = s.SendInput(context.Background())
	assert.Equal(t, "  ", s.Input())
	assert.Empty(t, chat.calls)

	s.SetInput("launch my shop")
	_, err := s.SendInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", s.Input())
	require.Len(t, chat.calls, 1)
	assert.Equal(t, "launch my shop", chat.calls[0].message)
}

func TestAddMessage(t *testing.T) {
	s := newStore(t, &fakeChatter{})
	ad := &types.AdData{Headline: "h"}
	stored := s.AddMessage(types.Message{Role: types.RoleAssistant, Content: "prompt", AdPreview: ad})

	assert.NotEmpty(t, stored.ID)
	ad.Headline = "mutated"
	assert.Equal(t, "h", s.Messages()[0].AdPreview.Headline)
}

func TestClose_DropsLateReply(t *testing.T) {
	release := make(chan struct{})
	chat := chatterFunc(func(ctx context.Context) (*api.ChatResponse, error) {
		<-release
		return &api.ChatResponse{Message: "late"}, nil
	})
	s := newStore(t, chat)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Send(context.Background(), "hi")
	}()

	require.Eventually(t, s.IsLoading, time.Second, 5*time.Millisecond)
	s.Close()
	close(release)
	<-done

	assert.Len(t, s.Messages(), 1)
	assert.False(t, s.IsLoading())
}

type chatterFunc func(ctx context.Context) (*api.ChatResponse, error)

func (f chatterFunc) SendChat(ctx context.Context, _ api.Endpoint, _, _ string) (*api.ChatResponse, error) {
	return f(ctx)
}

func TestPlaceholderRotation(t *testing.T) {
	s := newStore(t, &fakeChatter{}, WithPlaceholders("a", "b"), WithPlaceholderInterval(10*time.Millisecond))
	assert.Equal(t, "a", s.Placeholder())
	require.Eventually(t, func() bool { return s.Placeholder() == "b" }, time.Second, 2*time.Millisecond)
}

func TestOptions_Validation(t *testing.T) {
	_, err := New(&fakeChatter{}, WithEndpoint(""))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(&fakeChatter{}, WithPlaceholderInterval(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(&fakeChatter{}, WithStorageKey(""))
	assert.True(t, errors.IsValidationError(err))
}

func TestPersistence(t *testing.T) {
	t.Run("saves after every change", func(t *testing.T) {
		store := storage.NewMemory()
		s := newStore(t, &fakeChatter{replies: []*api.ChatResponse{{Message: "yo", ConversationID: "c1"}}},
			WithStorage(store))
		_, _ = s.Send(context.Background(), "hi")

		raw, ok := store.Get(constants.KeyConversation)
		require.True(t, ok)
		assert.Contains(t, raw, `"conversationId":"c1"`)

		restored := newStore(t, &fakeChatter{}, WithStorage(store))
		restored.Restore(context.Background())
		assert.Equal(t, "c1", restored.ConversationID())
		assert.Equal(t, s.Messages(), restored.Messages())
	})

	t.Run("empty snapshot leaves no key", func(t *testing.T) {
		store := storage.NewMemory()
		require.NoError(t, store.Set(constants.KeyConversation, `{"messages":[]}`))

		s := newStore(t, &fakeChatter{}, WithStorage(store))
		s.Restore(context.Background())

		_, ok := store.Get(constants.KeyConversation)
		assert.False(t, ok)
		assert.Empty(t, s.Messages())
	})

	t.Run("unreadable snapshot keeps defaults", func(t *testing.T) {
		store := storage.NewMemory()
		require.NoError(t, store.Set(constants.KeyConversation, `{not json`))

		s := newStore(t, &fakeChatter{}, WithStorage(store))
		s.Restore(context.Background())
		assert.Empty(t, s.Messages())
		assert.Equal(t, "", s.ConversationID())
	})

	t.Run("reset removes key", func(t *testing.T) {
		store := storage.NewMemory()
		s := newStore(t, &fakeChatter{}, WithStorage(store))
		s.AddMessage(types.NewMessage(types.RoleAssistant, "x"))
		_, ok := store.Get(constants.KeyConversation)
		require.True(t, ok)

		s.Reset()
		_, ok = store.Get(constants.KeyConversation)
		assert.False(t, ok)
	})
}

func TestOnChange(t *testing.T) {
	s := newStore(t, &fakeChatter{}, WithPlaceholders())
	var snaps []Snapshot
	var mu sync.Mutex
	s.OnChange(func(snap Snapshot) {
		mu.Lock()
		snaps = append(snaps, snap)
		mu.Unlock()
	})

	_, _ = s.Send(context.Background(), "hi")

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(snaps), 2)
	assert.True(t, snaps[0].Loading)
	assert.Len(t, snaps[0].Messages, 1)
	last := snaps[len(snaps)-1]
	assert.False(t, last.Loading)
	assert.Len(t, last.Messages, 2)
}
