package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/conversation"
	"github.com/campainly/campaigner/pkg/ticker"
	"github.com/campainly/campaigner/pkg/types"
)

// OnboardingSteps is the number of steps the progress indicator shows.
const OnboardingSteps = 5

// Onboarding is the public first-visit chat.
type Onboarding struct {
	store    *conversation.Store
	interval time.Duration

	mu      sync.Mutex
	typing  string
	pending chan struct{}
	onFrame func(string)
}

// OnboardingOption configures an Onboarding.
type OnboardingOption func(*Onboarding)

// WithTypingInterval sets the delay between revealed characters.
func WithTypingInterval(d time.Duration) OnboardingOption {
	return func(o *Onboarding) { o.interval = d }
}

// OnTyping is called with each partially revealed text.
func OnTyping(fn func(string)) OnboardingOption {
	return func(o *Onboarding) { o.onFrame = fn }
}

// NewOnboarding creates the onboarding flow over store.
func NewOnboarding(store *conversation.Store, opts ...OnboardingOption) *Onboarding {
	o := &Onboarding{store: store, interval: constants.TypingInterval}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Store returns the conversation.
func (o *Onboarding) Store() *conversation.Store {
	return o.store
}

// Greet reveals text one character at a time and then appends it as an
// assistant message. The reveal ignores cancellation of ctx; a Send issued
// meanwhile waits for it to finish.
func (o *Onboarding) Greet(ctx context.Context, text string) types.Message {
	done := make(chan struct{})
	o.mu.Lock()
	prev := o.pending
	o.pending = done
	o.mu.Unlock()
	defer close(done)

	if prev != nil {
		<-prev
	}

	_ = ticker.Reveal(context.WithoutCancel(ctx), text, o.interval, func(frame string) {
		o.mu.Lock()
		o.typing = frame
		o.mu.Unlock()
		if o.onFrame != nil {
			o.onFrame(frame)
		}
	})

	msg := o.store.AddMessage(types.NewMessage(types.RoleAssistant, text))
	o.mu.Lock()
	o.typing = ""
	o.mu.Unlock()
	return msg
}

// Typing returns the text revealed so far, empty when nothing is being
// typed.
func (o *Onboarding) Typing() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.typing
}

// Send sends text once any reveal in progress has finished.
func (o *Onboarding) Send(ctx context.Context, text string) (*api.ChatResponse, error) {
	o.mu.Lock()
	pending := o.pending
	o.mu.Unlock()
	if pending != nil {
		select {
		case <-pending:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return o.store.Send(ctx, text)
}

// Progress returns the cosmetic step indicator: the current step counted
// from the user's messages and the total. It never gates sending.
func (o *Onboarding) Progress() (step, total int) {
	n := 0
	for _, m := range o.store.Messages() {
		if m.Role == types.RoleUser {
			n++
		}
	}
	return min(n, OnboardingSteps), OnboardingSteps
}
