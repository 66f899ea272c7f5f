// Package conversation holds the state of one chat: the transcript, the
// input buffer, the loading and complete flags and the backend-minted
// conversation id. Send performs one round trip against the configured
// endpoint and always grows the transcript by a user message and exactly
// one assistant message, whether the call succeeds or fails.
package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/ticker"
	"github.com/campainly/campaigner/pkg/types"
)

// Chatter sends one chat turn. *api.Client satisfies it.
type Chatter interface {
	SendChat(ctx context.Context, endpoint api.Endpoint, message, conversationID string) (*api.ChatResponse, error)
}

// Snapshot is a copy of the store's state.
type Snapshot struct {
	ConversationID string          `json:"conversationId,omitempty"`
	Messages       []types.Message `json:"messages"`
	IsComplete     bool            `json:"isComplete,omitempty"`

	Loading     bool   `json:"-"`
	Input       string `json:"-"`
	Placeholder string `json:"-"`
}

// Empty reports whether there is nothing worth persisting.
func (s Snapshot) Empty() bool {
	return s.ConversationID == "" && len(s.Messages) == 0 && !s.IsComplete
}

// Store is the state of one conversation. It is safe for concurrent use,
// but overlapping Send calls are not serialized.
type Store struct {
	cfg    *config
	client Chatter
	hooks  hooks

	mu       sync.Mutex
	id       string
	messages []types.Message
	complete bool
	loading  bool
	input    string
	closed   bool

	rotator *ticker.Rotator
}

// New creates a store that talks to client. The placeholder rotation
// starts immediately and runs until Close.
func New(client Chatter, opts ...Option) (*Store, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	s := &Store{cfg: cfg, client: client}
	s.rotator = ticker.NewRotator(len(cfg.placeholders), cfg.placeholderInterval, func(int) {
		s.notify()
	})
	return s, nil
}

// Endpoint returns the chat route this store talks to.
func (s *Store) Endpoint() api.Endpoint {
	return s.cfg.endpoint
}

// OnChange registers fn to run after every change.
func (s *Store) OnChange(fn ChangeHook) {
	s.hooks.add(fn)
}

// Send appends text as a user message and performs one round trip. Blank
// text is ignored. A failed call appends the fixed error message and its
// error is returned after the transcript has been updated; the response is
// returned on success so callers can inspect structured payloads.
func (s *Store) Send(ctx context.Context, text string) (*api.ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	s.mu.Lock()
	s.messages = append(s.messages, types.NewMessage(types.RoleUser, text))
	s.loading = true
	id := s.id
	s.mu.Unlock()
	s.changed()

	ctx = logging.WithConversation(ctx, id)
	log := logging.FromContext(ctx)

	resp, err := s.client.SendChat(ctx, s.cfg.endpoint, text, id)

	s.mu.Lock()
	if s.closed {
		s.loading = false
		s.mu.Unlock()
		log.Debug().Msg("Dropping chat reply that arrived after close")
		return resp, err
	}

	if err != nil {
		log.Warn().Err(err).Str("endpoint", string(s.cfg.endpoint)).Msg("Chat turn failed")
		s.messages = append(s.messages, types.NewMessage(types.RoleAssistant, s.cfg.errorText))
	} else {
		if resp.ConversationID != "" && resp.ConversationID != s.id {
			s.id = resp.ConversationID
		}
		content := resp.Message
		if content == "" {
			content = EmptyReplyText
		}
		reply := types.NewMessage(types.RoleAssistant, content)
		if resp.IsComplete {
			s.applyCompletion(&reply)
			log.Debug().Stringer("policy", s.cfg.policy).Msg("Conversation complete")
		}
		s.messages = append(s.messages, reply)
	}
	s.loading = false
	s.mu.Unlock()
	s.changed()

	return resp, err
}

// SendInput sends the input buffer and clears it.
func (s *Store) SendInput(ctx context.Context) (*api.ChatResponse, error) {
	s.mu.Lock()
	text := s.input
	if strings.TrimSpace(text) != "" {
		s.input = ""
	}
	s.mu.Unlock()
	return s.Send(ctx, text)
}

// applyCompletion runs the completion policy against the reply about to
// be appended. Callers hold s.mu.
func (s *Store) applyCompletion(reply *types.Message) {
	switch s.cfg.policy {
	case ShowLogin:
		reply.ShowFacebookLogin = true
	case MarkComplete:
		s.complete = true
	}
}

// AddMessage appends msg verbatim, minting an id when it has none, and
// returns the stored copy.
func (s *Store) AddMessage(msg types.Message) types.Message {
	if msg.ID == "" {
		msg.ID = types.NewID()
	}
	msg = msg.Clone()

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	s.changed()
	return msg.Clone()
}

// SetInput replaces the input buffer.
func (s *Store) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
	s.notify()
}

// Input returns the input buffer.
func (s *Store) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Messages returns a copy of the transcript.
func (s *Store) Messages() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneMessages(s.messages)
}

// ConversationID returns the backend conversation id, empty before the
// first reply.
func (s *Store) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// SetConversationID adopts id when it is non-empty and differs from the
// current one.
func (s *Store) SetConversationID(id string) {
	s.mu.Lock()
	if id == "" || id == s.id {
		s.mu.Unlock()
		return
	}
	s.id = id
	s.mu.Unlock()
	s.changed()
}

// IsLoading reports whether a Send is waiting on the backend.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsComplete reports whether the backend has marked the conversation
// complete under the MarkComplete policy.
func (s *Store) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

// Placeholder returns the current input hint.
func (s *Store) Placeholder() string {
	if len(s.cfg.placeholders) == 0 {
		return ""
	}
	return s.cfg.placeholders[s.rotator.Index()%len(s.cfg.placeholders)]
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ConversationID: s.id,
		Messages:       types.CloneMessages(s.messages),
		IsComplete:     s.complete,
		Loading:        s.loading,
		Input:          s.input,
	}
	s.mu.Unlock()
	snap.Placeholder = s.Placeholder()
	return snap
}

// Reset clears the conversation and its persisted snapshot.
func (s *Store) Reset() {
	s.mu.Lock()
	s.id = ""
	s.messages = nil
	s.complete = false
	s.input = ""
	s.mu.Unlock()
	s.changed()
}

// Close stops the placeholder rotation. Replies that arrive afterwards are
// dropped.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.rotator.Stop()
}

// changed persists the state and notifies hooks.
func (s *Store) changed() {
	snap := s.Snapshot()
	s.persist(snap)
	s.hooks.trigger(snap)
}

// notify fires hooks for changes that are not persisted.
func (s *Store) notify() {
	s.hooks.trigger(s.Snapshot())
}
