// Package adpreview is the editable ad preview: a local copy of one ad
// creative with a media carousel, staged uploads and a submit action.
// Edits are reported through OnUpdate as they happen; nothing is sent to
// the backend until Submit.
package adpreview

import (
	"context"
	"strings"
	"sync"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/types"
)

// Mode is the editor's display mode.
type Mode int

// Modes.
const (
	Viewing Mode = iota
	Editing
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// Uploader sends staged media files. *api.Client satisfies it.
type Uploader interface {
	UploadAdMedia(ctx context.Context, files []api.File) (*api.AdUploadResponse, error)
}

type staged struct {
	url  string
	file api.File
}

// Editor is one ad preview. It is safe for concurrent use.
type Editor struct {
	cfg *config

	mu         sync.Mutex
	ad         types.AdData
	mode       Mode
	current    int
	broken     map[string]bool
	staged     []staged
	submitting bool
}

// New creates an editor over a copy of ad.
func New(ad types.AdData, opts ...Option) *Editor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	e := &Editor{
		cfg:    cfg,
		ad:     ad.Clone(),
		broken: make(map[string]bool),
	}
	if cfg.fixed && cfg.editable {
		e.mode = Editing
	}
	return e
}

// Ad returns a copy of the current ad.
func (e *Editor) Ad() types.AdData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ad.Clone()
}

// Mode returns the display mode.
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// ToggleEdit flips between viewing and editing and returns the new mode.
// An editor with a fixed mode never changes.
func (e *Editor) ToggleEdit() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cfg.fixed {
		if e.mode == Editing {
			e.mode = Viewing
		} else {
			e.mode = Editing
		}
	}
	return e.mode
}

// SetField sets one text field and reports the whole ad to OnUpdate.
func (e *Editor) SetField(field types.Field, value string) {
	e.mu.Lock()
	e.ad = e.ad.With(field, value)
	ad := e.ad.Clone()
	e.mu.Unlock()
	e.update(ad)
}

// CanAddMedia reports whether another media item fits.
func (e *Editor) CanAddMedia() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ad.Media) < constants.MaxMediaItems
}

// RemoveMedia drops the media item at k. The carousel position steps back
// when it would point past the end.
func (e *Editor) RemoveMedia(k int) {
	e.mu.Lock()
	if k < 0 || k >= len(e.ad.Media) {
		e.mu.Unlock()
		return
	}
	removed := e.ad.Media[k].URL
	e.ad = e.ad.RemoveMedia(k)
	if e.current >= len(e.ad.Media) && e.current > 0 {
		e.current--
	}
	for i, s := range e.staged {
		if s.url == removed {
			e.staged = append(e.staged[:i], e.staged[i+1:]...)
			break
		}
	}
	ad := e.ad.Clone()
	e.mu.Unlock()
	e.update(ad)
}

// Current returns the carousel position.
func (e *Editor) Current() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Next advances the carousel, stopping at the last item.
func (e *Editor) Next() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < len(e.ad.Media)-1 {
		e.current++
	}
	return e.current
}

// Prev moves the carousel back, stopping at the first item.
func (e *Editor) Prev() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current > 0 {
		e.current--
	}
	return e.current
}

// MarkBroken records that the media at url failed to load.
func (e *Editor) MarkBroken(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.broken[url] = true
}

// MarkLoaded clears a broken mark after url loads.
func (e *Editor) MarkLoaded(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.broken, url)
}

// IsBroken reports whether url should render as an error placeholder.
func (e *Editor) IsBroken(url string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.broken[url]
}

// Staged returns the number of files waiting for upload.
func (e *Editor) Staged() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.staged)
}

// CanSubmit reports whether Submit would upload. It is false while a
// submit runs, with nothing staged, or with a required text field empty
// unless the editor only collects media.
func (e *Editor) CanSubmit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitErr() == nil
}

// submitErr explains why Submit is refused. Callers hold e.mu.
func (e *Editor) submitErr() error {
	switch {
	case e.submitting:
		return errors.ErrInFlight
	case len(e.staged) == 0:
		return errors.NewValidationError("media", 0, "no media staged for upload")
	case e.cfg.mediaOnly:
		return nil
	}
	required := []struct {
		field types.Field
		value string
	}{
		{types.FieldHeadline, e.ad.Headline},
		{types.FieldPrimaryText, e.ad.PrimaryText},
		{types.FieldButtonText, e.ad.ButtonText},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.NewValidationError(string(r.field), r.value, "field is required")
		}
	}
	return nil
}

// Submit uploads the staged files. On success the local previews are
// replaced by the returned URLs, staging is cleared and OnUploadComplete
// receives the URLs. A failed upload keeps everything staged.
func (e *Editor) Submit(ctx context.Context) ([]string, error) {
	if e.cfg.uploader == nil {
		return nil, &errors.ConfigError{Component: "adpreview", Message: "no uploader configured"}
	}

	e.mu.Lock()
	if err := e.submitErr(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.submitting = true
	batch := make([]staged, len(e.staged))
	copy(batch, e.staged)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	files := make([]api.File, len(batch))
	for i, s := range batch {
		files[i] = s.file
	}

	log := logging.FromContext(ctx)
	resp, err := e.cfg.uploader.UploadAdMedia(ctx, files)
	if err != nil {
		log.Warn().Err(err).Int("files", len(files)).Msg("Media upload failed")
		return nil, err
	}
	log.Info().Str("ad_id", resp.AdID.String()).Int("media", len(resp.MediaURLs)).Msg("Media uploaded")

	uploaded := make(map[string]string, len(batch))
	for i, s := range batch {
		uploaded[s.url] = ""
		if len(resp.MediaURLs) == len(batch) {
			uploaded[s.url] = resp.MediaURLs[i]
		}
	}

	e.mu.Lock()
	for j, m := range e.ad.Media {
		if u := uploaded[m.URL]; u != "" {
			e.ad.Media[j].URL = u
		}
	}
	remaining := e.staged[:0]
	for _, s := range e.staged {
		if _, done := uploaded[s.url]; !done {
			remaining = append(remaining, s)
		}
	}
	e.staged = remaining
	ad := e.ad.Clone()
	e.mu.Unlock()

	e.update(ad)
	if e.cfg.onUploadComplete != nil {
		e.cfg.onUploadComplete(ctx, resp.MediaURLs)
	}
	return resp.MediaURLs, nil
}

func (e *Editor) update(ad types.AdData) {
	if e.cfg.onUpdate != nil {
		e.cfg.onUpdate(ad)
	}
}
