package adpreview

import (
	"context"
	"encoding/base64"

	"github.com/sourcegraph/conc/iter"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/types"
)

// Converter turns a staged file into a URL the preview can show.
type Converter func(f api.File) (string, error)

// DataURL encodes f as a base64 data URL.
func DataURL(f api.File) (string, error) {
	if f.ContentType == "" {
		return "", errors.NewValidationError("contentType", f.Name, "file has no content type")
	}
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data), nil
}

type converted struct {
	item types.MediaItem
	file api.File
}

// AddFiles stages image and video files; anything else is skipped. Files
// are converted concurrently and merged together once every conversion has
// finished, in the order given, up to the media cap. It returns how many
// files were added. Conversion failures drop only the failing files and
// are returned joined.
func (e *Editor) AddFiles(ctx context.Context, files []api.File) (int, error) {
	accepted := make([]api.File, 0, len(files))
	for _, f := range files {
		if _, ok := types.MediaTypeFromMIME(f.ContentType); ok {
			accepted = append(accepted, f)
		}
	}
	if len(accepted) == 0 {
		return 0, nil
	}

	results, convErr := iter.MapErr(accepted, func(f *api.File) (converted, error) {
		url, err := e.cfg.converter(*f)
		if err != nil {
			return converted{}, errors.WrapParse("data-url", f.Name, err)
		}
		kind, _ := types.MediaTypeFromMIME(f.ContentType)
		return converted{item: types.MediaItem{URL: url, Type: kind}, file: *f}, nil
	})

	ok := results[:0]
	for _, r := range results {
		if r.item.URL != "" {
			ok = append(ok, r)
		}
	}

	items := make([]types.MediaItem, len(ok))
	for i, r := range ok {
		items[i] = r.item
	}

	e.mu.Lock()
	before := len(e.ad.Media)
	var added int
	e.ad, added = e.ad.AppendMedia(items...)
	for _, r := range ok[:added] {
		e.staged = append(e.staged, staged{url: r.item.URL, file: r.file})
	}
	if added > 0 {
		e.current = before
	}
	ad := e.ad.Clone()
	e.mu.Unlock()

	if added < len(items) {
		logging.FromContext(ctx).Debug().
			Int("dropped", len(items)-added).
			Msg("Media cap reached, extra files not added")
	}
	if added > 0 {
		e.update(ad)
	}
	return added, convErr
}
