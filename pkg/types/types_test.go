package types_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/types"
)

func media(n int) []types.MediaItem {
	out := make([]types.MediaItem, n)
	for i := range out {
		out[i] = types.MediaItem{URL: fmt.Sprintf("https://cdn.example.com/%d.jpg", i), Type: types.MediaImage}
	}
	return out
}

func TestAppendMedia_EnforcesCap(t *testing.T) {
	ad := types.AdData{Media: media(8)}

	got, added := ad.AppendMedia(media(5)...)
	assert.Equal(t, 2, added)
	assert.Len(t, got.Media, constants.MaxMediaItems)
	assert.Len(t, ad.Media, 8, "original must not change")

	full, added := got.AppendMedia(media(1)...)
	assert.Zero(t, added)
	assert.Len(t, full.Media, constants.MaxMediaItems)
}

func TestRemoveMedia(t *testing.T) {
	ad := types.AdData{Media: media(3)}
	got := ad.RemoveMedia(1)
	require.Len(t, got.Media, 2)
	assert.Equal(t, ad.Media[0], got.Media[0])
	assert.Equal(t, ad.Media[2], got.Media[1])
	assert.Len(t, ad.Media, 3)

	assert.Len(t, ad.RemoveMedia(7).Media, 3)
}

func TestWith(t *testing.T) {
	ad := types.AdData{Headline: "old"}
	got := ad.With(types.FieldHeadline, "")
	assert.Equal(t, "", got.Headline)
	assert.Equal(t, "old", ad.Headline)
	assert.Equal(t, "Buy", ad.With(types.FieldButtonText, "Buy").ButtonText)
	assert.Equal(t, ad, ad.With(types.Field("bogus"), "x"))
}

func TestMediaTypeFromURL(t *testing.T) {
	tests := map[string]types.MediaType{
		"https://cdn.example.com/a.jpg":             types.MediaImage,
		"https://cdn.example.com/a.MP4":             types.MediaVideo,
		"https://cdn.example.com/a.webm?sig=abc":    types.MediaVideo,
		"https://cdn.example.com/clip.mov#t=3":      types.MediaVideo,
		"https://cdn.example.com/media/12345":       types.MediaImage,
		"https://cdn.example.com/a.mp4.png?x=1.mp4": types.MediaImage,
	}
	for url, want := range tests {
		assert.Equal(t, want, types.MediaTypeFromURL(url), url)
	}
}

func TestMediaTypeFromMIME(t *testing.T) {
	kind, ok := types.MediaTypeFromMIME("video/mp4")
	assert.True(t, ok)
	assert.Equal(t, types.MediaVideo, kind)

	_, ok = types.MediaTypeFromMIME("application/pdf")
	assert.False(t, ok)
}

func TestMessageClone_DoesNotAlias(t *testing.T) {
	msg := types.NewMessage(types.RoleAssistant, "hi")
	msg.AdPreview = &types.AdData{Media: media(1)}
	msg.StrategyAds = []types.AdData{{Headline: "A", Media: media(1)}}

	c := msg.Clone()
	c.AdPreview.Media[0].URL = "changed"
	c.StrategyAds[0].Headline = "B"

	assert.NotEqual(t, "changed", msg.AdPreview.Media[0].URL)
	assert.Equal(t, "A", msg.StrategyAds[0].Headline)
	assert.NotEmpty(t, msg.ID)
	assert.True(t, msg.HasPayload())
}

func TestParseRole(t *testing.T) {
	r, ok := types.ParseRole(" User ")
	assert.True(t, ok)
	assert.Equal(t, types.RoleUser, r)

	_, ok = types.ParseRole("system")
	assert.False(t, ok)
}
