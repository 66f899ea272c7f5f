package types

import (
	"path"
	"strings"

	"github.com/campainly/campaigner/pkg/constants"
)

// MediaType tags a media item as an image or a video.
type MediaType string

// Media kinds.
const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaItem is one image or video reference.
type MediaItem struct {
	URL  string    `json:"url" yaml:"url"`
	Type MediaType `json:"type" yaml:"type"`
}

// AdData is one ad creative.
type AdData struct {
	Media       []MediaItem `json:"media,omitempty" yaml:"media,omitempty"`
	Headline    string      `json:"headline" yaml:"headline"`
	PrimaryText string      `json:"primaryText" yaml:"primaryText"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	ButtonText  string      `json:"buttonText" yaml:"buttonText"`
}

// Field names an editable text field of an ad.
type Field string

// Editable fields.
const (
	FieldHeadline    Field = "headline"
	FieldPrimaryText Field = "primaryText"
	FieldDescription Field = "description"
	FieldButtonText  Field = "buttonText"
)

// With returns a copy of the ad with field set to value. Unknown fields
// leave the ad unchanged.
func (a AdData) With(field Field, value string) AdData {
	out := a.Clone()
	switch field {
	case FieldHeadline:
		out.Headline = value
	case FieldPrimaryText:
		out.PrimaryText = value
	case FieldDescription:
		out.Description = value
	case FieldButtonText:
		out.ButtonText = value
	}
	return out
}

// AppendMedia returns a copy with items appended, truncated so the ad never
// holds more than MaxMediaItems. The number of items actually added is
// returned alongside.
func (a AdData) AppendMedia(items ...MediaItem) (AdData, int) {
	out := a.Clone()
	room := constants.MaxMediaItems - len(out.Media)
	if room <= 0 {
		return out, 0
	}
	if len(items) > room {
		items = items[:room]
	}
	out.Media = append(out.Media, items...)
	return out, len(items)
}

// RemoveMedia returns a copy without the item at index. Out-of-range
// indexes leave the ad unchanged.
func (a AdData) RemoveMedia(index int) AdData {
	out := a.Clone()
	if index < 0 || index >= len(out.Media) {
		return out
	}
	out.Media = append(out.Media[:index], out.Media[index+1:]...)
	return out
}

// Clone returns a deep copy of the ad.
func (a AdData) Clone() AdData {
	out := a
	if a.Media != nil {
		out.Media = make([]MediaItem, len(a.Media))
		copy(out.Media, a.Media)
	}
	return out
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".ogg":  true,
	".m4v":  true,
	".avi":  true,
	".mkv":  true,
}

// MediaTypeFromURL classifies a media URL by its file extension, ignoring
// query strings and fragments. Anything unrecognised is an image.
func MediaTypeFromURL(raw string) MediaType {
	u := raw
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if videoExtensions[strings.ToLower(path.Ext(u))] {
		return MediaVideo
	}
	return MediaImage
}

// MediaTypeFromMIME maps a MIME type to a media kind. The second return is
// false for anything that is neither image nor video.
func MediaTypeFromMIME(mime string) (MediaType, bool) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return MediaImage, true
	case strings.HasPrefix(mime, "video/"):
		return MediaVideo, true
	}
	return "", false
}
