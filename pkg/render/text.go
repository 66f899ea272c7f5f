package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/campainly/campaigner/pkg/types"
)

// Renderer writes views as terminal text. Assistant text is treated as
// markdown.
type Renderer struct {
	md    *glamour.TermRenderer
	title cases.Caser
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererConfig)

type rendererConfig struct {
	width int
	style string
}

// WithWidth sets the word-wrap width.
func WithWidth(width int) RendererOption {
	return func(c *rendererConfig) { c.width = width }
}

// WithStyle selects a glamour style such as "dark", "light" or "notty".
// The default picks one from the terminal.
func WithStyle(style string) RendererOption {
	return func(c *rendererConfig) { c.style = style }
}

// NewRenderer creates a terminal renderer.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	cfg := &rendererConfig{width: 80}
	for _, opt := range opts {
		opt(cfg)
	}

	mdOpts := []glamour.TermRendererOption{glamour.WithWordWrap(cfg.width)}
	if cfg.style != "" {
		mdOpts = append(mdOpts, glamour.WithStandardStyle(cfg.style))
	} else {
		mdOpts = append(mdOpts, glamour.WithAutoStyle())
	}
	md, err := glamour.NewTermRenderer(mdOpts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{md: md, title: cases.Title(language.English)}, nil
}

// Text renders v.
func (r *Renderer) Text(v View) string {
	var b strings.Builder
	b.WriteString(r.title.String(string(v.Role)))
	b.WriteString(":\n")

	if v.HasBubble() {
		b.WriteString(r.bubble(v))
	}
	if v.Embed != nil {
		fmt.Fprintf(&b, "  [%s] %s\n", v.Embed.Kind, v.Embed.URL)
	}
	if v.AdPreview != nil {
		mode := "read-only"
		if v.AdPreview.Editable {
			mode = "editable"
		}
		fmt.Fprintf(&b, "  ad preview (%s)\n", mode)
		writeAd(&b, v.AdPreview.Ad)
	}
	for _, ad := range v.StrategyAds {
		fmt.Fprintf(&b, "  variant %d\n", ad.Index+1)
		writeAd(&b, ad.Ad)
	}
	if v.LoginAction {
		b.WriteString("  > sign in to continue: campaigner login\n")
	}
	if v.FinalizeAction {
		b.WriteString("  > campaign ready: type /finalize to save it\n")
	}
	return b.String()
}

func (r *Renderer) bubble(v View) string {
	if v.Role != types.RoleAssistant {
		return indent(v.Text) + "\n"
	}
	out, err := r.md.Render(v.Text)
	if err != nil {
		return indent(v.Text) + "\n"
	}
	return out
}

func writeAd(b *strings.Builder, ad types.AdData) {
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(b, "    %-12s %s\n", label+":", value)
		}
	}
	line("headline", ad.Headline)
	line("text", ad.PrimaryText)
	line("description", ad.Description)
	line("button", ad.ButtonText)
	for i, m := range ad.Media {
		u := m.URL
		if strings.HasPrefix(u, "data:") {
			u = "(local file)"
		}
		fmt.Fprintf(b, "    media %d/%d  %s %s\n", i+1, len(ad.Media), m.Type, u)
	}
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// AdText formats one ad the way Text shows it inside a message.
func AdText(ad types.AdData) string {
	var b strings.Builder
	writeAd(&b, ad)
	return b.String()
}
