// Package render maps messages to what the chat shows for them. Render is
// a pure function from a message to a View; Renderer turns a View into
// terminal text.
package render

import (
	"regexp"
	"strings"

	"github.com/campainly/campaigner/pkg/types"
)

// EmbedKind says how an embedded URL is shown.
type EmbedKind string

// Embed kinds.
const (
	EmbedVideo EmbedKind = "video"
	EmbedFrame EmbedKind = "frame"
)

// Embed is a URL lifted out of assistant text.
type Embed struct {
	URL  string
	Kind EmbedKind
}

// AdBlock is one ad-preview editor.
type AdBlock struct {
	// Index is the position among the message's strategy ads, or -1 for a
	// single ad preview.
	Index    int
	Ad       types.AdData
	Editable bool
}

// View is everything shown for one message.
type View struct {
	ID   string
	Role types.Role

	// Text is the bubble text. No bubble is shown when it is empty.
	Text  string
	Embed *Embed

	AdPreview   *AdBlock
	StrategyAds []AdBlock

	LoginAction    bool
	FinalizeAction bool
}

// Options tune Render.
type Options struct {
	// ProxyURL rewrites media URLs, typically api.Client.ProxyURL.
	ProxyURL func(string) string
}

var (
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	videoPattern = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)(\?.*)?$`)
)

// Render maps msg to its view.
func Render(msg types.Message, opts Options) View {
	v := View{
		ID:             msg.ID,
		Role:           msg.Role,
		Text:           msg.Content,
		LoginAction:    msg.ShowFacebookLogin,
		FinalizeAction: msg.ShowCampaignReadyButton,
	}

	if msg.Role == types.RoleAssistant {
		if u := urlPattern.FindString(msg.Content); u != "" {
			kind := EmbedFrame
			if videoPattern.MatchString(u) {
				kind = EmbedVideo
			}
			v.Embed = &Embed{URL: u, Kind: kind}
			v.Text = strings.TrimSpace(urlPattern.ReplaceAllString(msg.Content, ""))
		}
	}

	if msg.AdPreview != nil {
		v.AdPreview = &AdBlock{
			Index:    -1,
			Ad:       proxied(*msg.AdPreview, opts.ProxyURL),
			Editable: !msg.IsStrategyAd,
		}
	}

	n := min(len(msg.StrategyAds), maxStrategyBlocks)
	if n > 0 {
		v.StrategyAds = make([]AdBlock, n)
		for i := range n {
			v.StrategyAds[i] = AdBlock{Index: i, Ad: proxied(msg.StrategyAds[i], opts.ProxyURL)}
		}
	}
	return v
}

// HasBubble reports whether a text bubble is shown.
func (v View) HasBubble() bool {
	return v.Text != ""
}

const maxStrategyBlocks = 3

func proxied(ad types.AdData, proxy func(string) string) types.AdData {
	out := ad.Clone()
	if proxy == nil {
		return out
	}
	for i := range out.Media {
		out.Media[i].URL = proxy(out.Media[i].URL)
	}
	return out
}
