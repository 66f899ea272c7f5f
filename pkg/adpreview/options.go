package adpreview

import (
	"context"

	"github.com/campainly/campaigner/pkg/types"
)

// Option configures an Editor.
type Option func(*config)

type config struct {
	fixed            bool
	editable         bool
	mediaOnly        bool
	uploader         Uploader
	converter        Converter
	onUpdate         func(types.AdData)
	onUploadComplete func(ctx context.Context, urls []string)
}

func defaultConfig() *config {
	return &config{converter: DataURL}
}

// WithEditable pins the mode for the editor's lifetime: Editing when
// editable is true, Viewing otherwise.
func WithEditable(editable bool) Option {
	return func(c *config) {
		c.fixed = true
		c.editable = editable
	}
}

// WithMediaOnly lets Submit proceed on media alone, without ad copy.
func WithMediaOnly() Option {
	return func(c *config) { c.mediaOnly = true }
}

// WithUploader sets where Submit sends staged files.
func WithUploader(u Uploader) Option {
	return func(c *config) { c.uploader = u }
}

// WithConverter replaces the file-to-URL conversion used by AddFiles.
func WithConverter(fn Converter) Option {
	return func(c *config) { c.converter = fn }
}

// OnUpdate is called with the whole ad after every edit.
func OnUpdate(fn func(types.AdData)) Option {
	return func(c *config) { c.onUpdate = fn }
}

// OnUploadComplete is called with the server URLs after a successful
// Submit.
func OnUploadComplete(fn func(ctx context.Context, urls []string)) Option {
	return func(c *config) { c.onUploadComplete = fn }
}
