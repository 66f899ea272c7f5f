package strategy

import (
	"encoding/json"

	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/types"
)

// VariantCount is the number of ad variants a creative describes: the
// longest of the copy arrays, capped at MaxStrategyAds.
func (c Creative) VariantCount() int {
	n := max(len(c.Headlines), len(c.PrimaryTexts), len(c.Descriptions))
	return min(n, constants.MaxStrategyAds)
}

// Media returns the media the backend selected, images first.
func (c Creative) Media() []types.MediaItem {
	items := make([]types.MediaItem, 0, len(c.MediaAssets.SelectedImages)+len(c.MediaAssets.SelectedVideos))
	for _, u := range c.MediaAssets.SelectedImages {
		items = append(items, types.MediaItem{URL: u, Type: types.MediaImage})
	}
	for _, u := range c.MediaAssets.SelectedVideos {
		items = append(items, types.MediaItem{URL: u, Type: types.MediaVideo})
	}
	return items
}

// FanOut zips the creative arrays into ad variants. Missing entries are
// empty strings. media is spread over the variants with Distribute; when
// it is empty the strategy's own selected media is used instead.
func FanOut(s *Schema, media []types.MediaItem) []types.AdData {
	if s == nil {
		return nil
	}
	c := s.Creative
	n := c.VariantCount()
	if n == 0 {
		return nil
	}
	if len(media) == 0 {
		media = c.Media()
	}
	shares := Distribute(media, n)

	ads := make([]types.AdData, n)
	for i := range ads {
		ad := types.AdData{
			Headline:    at(c.Headlines, i),
			PrimaryText: at(c.PrimaryTexts, i),
			Description: at(c.Descriptions, i),
			ButtonText:  c.CTA.At(i),
		}
		ad, _ = ad.AppendMedia(shares[i]...)
		ads[i] = ad
	}
	return ads
}

// Distribute deals media round-robin over n variants, so item j lands in
// variant j mod n. A single item goes to every variant, and a variant left
// without media gets item i mod len(media).
func Distribute(media []types.MediaItem, n int) [][]types.MediaItem {
	if n <= 0 {
		return nil
	}
	out := make([][]types.MediaItem, n)
	m := len(media)
	if m == 0 {
		return out
	}
	if m == 1 {
		for i := range out {
			out[i] = []types.MediaItem{media[0]}
		}
		return out
	}
	for j, item := range media {
		out[j%n] = append(out[j%n], item)
	}
	for i := range out {
		if len(out[i]) == 0 {
			out[i] = []types.MediaItem{media[i%m]}
		}
	}
	return out
}

// Rebuild writes edited variants back into a copy of s and encodes it.
// Copy arrays are replaced by the variants' fields, the call to action
// keeps its single-string form when every variant agrees, and the
// selected media become the union of the variants' media.
func Rebuild(s *Schema, ads []types.AdData) (json.RawMessage, error) {
	out := &Schema{}
	if s != nil {
		out = s.Clone()
	}
	c := &out.Creative

	c.Headlines = make([]string, len(ads))
	c.PrimaryTexts = make([]string, len(ads))
	c.Descriptions = make([]string, len(ads))
	buttons := make([]string, len(ads))
	for i, ad := range ads {
		c.Headlines[i] = ad.Headline
		c.PrimaryTexts[i] = ad.PrimaryText
		c.Descriptions[i] = ad.Description
		buttons[i] = ad.ButtonText
	}
	if c.CTA.Single && allEqual(buttons) {
		c.CTA.Values = buttons[:min(1, len(buttons))]
	} else {
		c.CTA = CTA{Values: buttons}
	}

	var images, videos []string
	seen := map[string]bool{}
	for _, ad := range ads {
		for _, m := range ad.Media {
			if seen[m.URL] {
				continue
			}
			seen[m.URL] = true
			if m.Type == types.MediaVideo {
				videos = append(videos, m.URL)
			} else {
				images = append(images, m.URL)
			}
		}
	}
	if len(images) > 0 || len(videos) > 0 {
		c.MediaAssets.SelectedImages = orEmpty(images)
		c.MediaAssets.SelectedVideos = orEmpty(videos)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

func allEqual(list []string) bool {
	for _, s := range list {
		if s != list[0] {
			return false
		}
	}
	return true
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
