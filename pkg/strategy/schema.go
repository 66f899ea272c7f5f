// Package strategy decodes the campaign strategy the backend generates,
// fans it out into ad variants and folds edited variants back into the
// original document for saving.
//
// The document is owned by the backend. Only the creative section is
// interpreted; every other field, known or not, is carried through
// untouched so a save sends back the shape that was received.
package strategy

import (
	"bytes"
	"encoding/json"

	"github.com/campainly/campaigner/pkg/errors"
)

// Schema is a decoded strategy document.
type Schema struct {
	Creative Creative

	fields map[string]json.RawMessage
}

// Creative holds the parallel arrays describing ad variants. Index i
// across the arrays belongs to variant i.
type Creative struct {
	Headlines    []string
	PrimaryTexts []string
	Descriptions []string
	Hooks        []string
	CTA          CTA
	MediaAssets  MediaAssets

	fields map[string]json.RawMessage
}

// MediaAssets lists the media the backend picked for the campaign.
type MediaAssets struct {
	SelectedImages []string
	SelectedVideos []string

	fields map[string]json.RawMessage
}

// CTA is the call to action, sent either as one string or as a list.
type CTA struct {
	Values []string
	Single bool
}

// At returns the call to action for variant i, falling back to the first.
func (c CTA) At(i int) string {
	switch {
	case i >= 0 && i < len(c.Values):
		return c.Values[i]
	case len(c.Values) > 0:
		return c.Values[0]
	}
	return ""
}

// ErrNoCreative is returned for a JSON object without a creative section.
var ErrNoCreative = errors.New("strategy has no creative section")

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	raw, ok := fields["creative"]
	if !ok || isNull(raw) {
		return ErrNoCreative
	}
	var c Creative
	if err := json.Unmarshal(raw, &c); err != nil {
		return err
	}
	s.Creative = c
	s.fields = fields
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	out := writable(s.fields)
	raw, err := json.Marshal(s.Creative)
	if err != nil {
		return nil, err
	}
	out["creative"] = raw
	return json.Marshal(out)
}

// Clone returns a copy that can be modified independently.
func (s *Schema) Clone() *Schema {
	return &Schema{Creative: s.Creative.clone(), fields: copyFields(s.fields)}
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Creative) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	c.fields = fields

	for key, dst := range map[string]*[]string{
		"headlines":     &c.Headlines,
		"primary_texts": &c.PrimaryTexts,
		"descriptions":  &c.Descriptions,
		"hooks":         &c.Hooks,
	} {
		if err := decodeField(fields, key, dst); err != nil {
			return err
		}
	}
	if err := decodeField(fields, "cta", &c.CTA); err != nil {
		return err
	}
	return decodeField(fields, "media_assets", &c.MediaAssets)
}

// MarshalJSON implements json.Marshaler.
func (c Creative) MarshalJSON() ([]byte, error) {
	out := writable(c.fields)
	for key, v := range map[string][]string{
		"headlines":     c.Headlines,
		"primary_texts": c.PrimaryTexts,
		"descriptions":  c.Descriptions,
		"hooks":         c.Hooks,
	} {
		if err := encodeField(out, key, v, v != nil); err != nil {
			return nil, err
		}
	}
	if err := encodeField(out, "cta", c.CTA, len(c.CTA.Values) > 0 || c.CTA.Single); err != nil {
		return nil, err
	}
	assets := c.MediaAssets.SelectedImages != nil || c.MediaAssets.SelectedVideos != nil || c.MediaAssets.fields != nil
	if err := encodeField(out, "media_assets", c.MediaAssets, assets); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (c Creative) clone() Creative {
	out := c
	out.Headlines = cloneStrings(c.Headlines)
	out.PrimaryTexts = cloneStrings(c.PrimaryTexts)
	out.Descriptions = cloneStrings(c.Descriptions)
	out.Hooks = cloneStrings(c.Hooks)
	out.CTA.Values = cloneStrings(c.CTA.Values)
	out.MediaAssets.SelectedImages = cloneStrings(c.MediaAssets.SelectedImages)
	out.MediaAssets.SelectedVideos = cloneStrings(c.MediaAssets.SelectedVideos)
	out.MediaAssets.fields = copyFields(c.MediaAssets.fields)
	out.fields = copyFields(c.fields)
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *MediaAssets) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	m.fields = fields
	if err := decodeField(fields, "selected_images", &m.SelectedImages); err != nil {
		return err
	}
	return decodeField(fields, "selected_videos", &m.SelectedVideos)
}

// MarshalJSON implements json.Marshaler.
func (m MediaAssets) MarshalJSON() ([]byte, error) {
	out := writable(m.fields)
	if err := encodeField(out, "selected_images", m.SelectedImages, m.SelectedImages != nil); err != nil {
		return nil, err
	}
	if err := encodeField(out, "selected_videos", m.SelectedVideos, m.SelectedVideos != nil); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CTA) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CTA{Values: []string{s}, Single: true}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*c = CTA{Values: list}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c CTA) MarshalJSON() ([]byte, error) {
	if c.Single && len(c.Values) <= 1 {
		return json.Marshal(c.At(0))
	}
	if c.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Values)
}

func objectFields(data []byte) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.NewParseError("json", key, err.Error(), err)
	}
	return nil
}

func encodeField(fields map[string]json.RawMessage, key string, v any, present bool) error {
	if _, had := fields[key]; !had && !present {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fields[key] = raw
	return nil
}

func copyFields(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func writable(in map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
