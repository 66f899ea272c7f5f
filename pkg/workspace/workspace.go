// Package workspace drives the two chat pages: the public onboarding chat
// and the signed-in workspace where media is uploaded, a strategy is
// generated and edited, and the campaign is saved.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/campainly/campaigner/pkg/adpreview"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/conversation"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/strategy"
	"github.com/campainly/campaigner/pkg/types"
)

// Backend is what the workspace calls. *api.Client satisfies it.
type Backend interface {
	adpreview.Uploader
	FetchMessages(ctx context.Context) ([]api.StoredMessage, error)
	GenerateStrategy(ctx context.Context, conversationID string) (*api.ChatResponse, error)
	SaveCampaign(ctx context.Context, strategy json.RawMessage) (*api.SaveResponse, error)
	SubmitContactDetails(ctx context.Context, details api.ContactDetails) error
}

// Workspace is the signed-in page.
type Workspace struct {
	backend Backend
	store   *conversation.Store

	loadOnce   sync.Once
	loadErr    error
	promptOnce sync.Once

	mu       sync.Mutex
	building bool
	schema   *strategy.Schema
	ads      []types.AdData
	onChange []func()

	background conc.WaitGroup
}

// New creates a workspace over store.
func New(backend Backend, store *conversation.Store) *Workspace {
	return &Workspace{backend: backend, store: store}
}

// Store returns the conversation.
func (w *Workspace) Store() *conversation.Store {
	return w.store
}

// OnChange registers fn to run when workspace state outside the
// conversation changes, such as the building flag.
func (w *Workspace) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Load replays the stored history and then, when nothing in it carries an
// ad preview, adds the upload prompt. Only the first call does anything;
// later calls return the first call's error. A failed history fetch leaves
// the history empty and is returned after the prompt has been added.
func (w *Workspace) Load(ctx context.Context) error {
	w.loadOnce.Do(func() {
		log := logging.FromContext(ctx)

		history, err := w.backend.FetchMessages(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load message history")
			w.loadErr = err
		}
		for _, m := range history {
			w.store.AddMessage(replay(m))
		}
		log.Debug().Int("messages", len(history)).Msg("History replayed")

		for _, m := range w.store.Messages() {
			if m.AdPreview != nil {
				return
			}
		}
		w.promptOnce.Do(func() {
			msg := types.NewMessage(types.RoleAssistant, UploadPromptText)
			msg.AdPreview = &types.AdData{}
			w.store.AddMessage(msg)
		})
	})
	return w.loadErr
}

// replay turns a stored entry into a message. "role: text" content is
// split; anything else is an assistant message verbatim.
func replay(m api.StoredMessage) types.Message {
	msg := types.Message{ID: m.ID.String(), Role: types.RoleAssistant, Content: m.Content}
	if prefix, rest, ok := strings.Cut(m.Content, ":"); ok {
		if role, ok := types.ParseRole(prefix); ok {
			msg.Role = role
			msg.Content = strings.TrimSpace(rest)
		}
	}
	return msg
}

// BuildingStrategy reports whether a strategy is being generated.
func (w *Workspace) BuildingStrategy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.building
}

func (w *Workspace) setBuilding(b bool) {
	w.mu.Lock()
	w.building = b
	hooks := append([]func(){}, w.onChange...)
	w.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// HandleUploadComplete continues after media was uploaded: it confirms the
// upload, asks the backend for a strategy and shows it as editable ad
// variants. A strategy that cannot be decoded is replaced by one fallback
// message and is not an error.
func (w *Workspace) HandleUploadComplete(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return errors.NewValidationError("urls", 0, "no uploaded media")
	}
	log := logging.FromContext(logging.WithOperation(ctx, "strategy"))

	w.store.AddMessage(types.NewMessage(types.RoleAssistant,
		UploadConfirmText+"\n"+strings.Join(urls, "\n")))

	media := make([]types.MediaItem, len(urls))
	for i, u := range urls {
		media[i] = types.MediaItem{URL: u, Type: types.MediaTypeFromURL(u)}
	}

	w.setBuilding(true)
	resp, err := w.backend.GenerateStrategy(ctx, w.store.ConversationID())
	w.setBuilding(false)
	if err != nil {
		log.Warn().Err(err).Msg("Strategy generation failed")
		w.appendFailure(err, conversation.ErrorText)
		return err
	}
	w.store.SetConversationID(resp.ConversationID)

	schema, err := strategy.Decode(resp.StrategySchema, resp.Message)
	var ads []types.AdData
	if err == nil {
		ads = strategy.FanOut(schema, media)
	}
	if len(ads) == 0 {
		log.Info().AnErr("decode", err).Msg("Strategy could not be used, showing fallback")
		w.store.AddMessage(types.NewMessage(types.RoleAssistant, StrategyFailedText))
		return nil
	}

	w.mu.Lock()
	w.schema = schema
	w.ads = cloneAds(ads)
	w.mu.Unlock()

	msg := types.NewMessage(types.RoleAssistant, StrategyReadyText)
	msg.IsStrategyAd = true
	msg.StrategyAds = ads
	msg.ShowCampaignReadyButton = true
	w.store.AddMessage(msg)
	log.Info().Int("variants", len(ads)).Msg("Strategy ready")
	return nil
}

// StrategyAds returns the current, possibly edited, strategy variants.
func (w *Workspace) StrategyAds() []types.AdData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneAds(w.ads)
}

// UpdateStrategyAd replaces variant i in the edit buffer.
func (w *Workspace) UpdateStrategyAd(i int, ad types.AdData) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.ads) {
		return errors.NewValidationError("index", i, "no strategy ad at this index")
	}
	w.ads[i] = ad.Clone()
	return nil
}

// Finalize saves the edited strategy as a campaign and returns its id.
// The outcome is also appended to the conversation.
func (w *Workspace) Finalize(ctx context.Context) (string, error) {
	w.mu.Lock()
	schema, ads := w.schema, cloneAds(w.ads)
	w.mu.Unlock()
	if schema == nil {
		return "", &errors.ValidationError{Message: "no strategy to save"}
	}

	log := logging.FromContext(logging.WithOperation(ctx, "finalize"))
	data, err := strategy.Rebuild(schema, ads)
	if err != nil {
		w.appendFailure(err, CampaignFailedText)
		return "", err
	}

	resp, err := w.backend.SaveCampaign(ctx, data)
	if err != nil {
		log.Warn().Err(err).Msg("Campaign save failed")
		w.appendFailure(err, CampaignFailedText)
		return "", err
	}

	id := resp.CampaignID.String()
	w.store.AddMessage(types.NewMessage(types.RoleAssistant, fmt.Sprintf(CampaignSavedText, id)))
	log.Info().Str("campaign_id", id).Msg("Campaign saved")
	return id, nil
}

// appendFailure reports err in the conversation. A missing login asks the
// user to sign in; anything else shows text.
func (w *Workspace) appendFailure(err error, text string) {
	if errors.IsAuthRequired(err) {
		msg := types.NewMessage(types.RoleAssistant, LoginRequiredText)
		msg.ShowFacebookLogin = true
		w.store.AddMessage(msg)
		return
	}
	w.store.AddMessage(types.NewMessage(types.RoleAssistant, text))
}

// QuickAction runs a shortcut. create_ad shows a sample ad preview; any
// other action puts its prompt in the input buffer.
func (w *Workspace) QuickAction(name string) {
	if name == ActionCreateAd {
		msg := types.NewMessage(types.RoleAssistant, SampleAdText)
		msg.AdPreview = &types.AdData{
			Headline:    sampleHeadline,
			PrimaryText: samplePrimaryText,
			ButtonText:  sampleButtonText,
		}
		w.store.AddMessage(msg)
		return
	}
	text := name
	for _, a := range QuickActions {
		if a.Name == name && a.Text != "" {
			text = a.Text
		}
	}
	w.store.SetInput(text)
}

// UploadEditor returns an editor for an upload prompt. A successful
// submit continues with HandleUploadComplete.
func (w *Workspace) UploadEditor(ad types.AdData) *adpreview.Editor {
	return adpreview.New(ad,
		adpreview.WithEditable(true),
		adpreview.WithMediaOnly(),
		adpreview.WithUploader(w.backend),
		adpreview.OnUploadComplete(func(ctx context.Context, urls []string) {
			_ = w.HandleUploadComplete(ctx, urls)
		}),
	)
}

// StrategyEditor returns an editor for strategy variant i whose edits
// keep the buffer in sync.
func (w *Workspace) StrategyEditor(i int) (*adpreview.Editor, error) {
	ads := w.StrategyAds()
	if i < 0 || i >= len(ads) {
		return nil, errors.NewValidationError("index", i, "no strategy ad at this index")
	}
	return adpreview.New(ads[i],
		adpreview.WithEditable(true),
		adpreview.OnUpdate(func(ad types.AdData) {
			_ = w.UpdateStrategyAd(i, ad)
		}),
	), nil
}

// Wait blocks until background submissions have finished.
func (w *Workspace) Wait() {
	w.background.Wait()
}

func cloneAds(in []types.AdData) []types.AdData {
	if in == nil {
		return nil
	}
	out := make([]types.AdData, len(in))
	for i, ad := range in {
		out[i] = ad.Clone()
	}
	return out
}
