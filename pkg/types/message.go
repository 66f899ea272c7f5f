package types

import (
	"strings"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

// Roles understood by the chat.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole maps a stored role label to a Role.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, true
	case "assistant":
		return RoleAssistant, true
	}
	return "", false
}

// Message is one entry of a transcript together with any structured
// payload the UI should render next to or instead of its text.
type Message struct {
	ID                      string   `json:"id" yaml:"id"`
	Role                    Role     `json:"role" yaml:"role"`
	Content                 string   `json:"content" yaml:"content"`
	ShowFacebookLogin       bool     `json:"showFacebookLogin,omitempty" yaml:"showFacebookLogin,omitempty"`
	ShowCampaignReadyButton bool     `json:"showCampaignReadyButton,omitempty" yaml:"showCampaignReadyButton,omitempty"`
	AdPreview               *AdData  `json:"adPreview,omitempty" yaml:"adPreview,omitempty"`
	IsStrategyAd            bool     `json:"isStrategyAd,omitempty" yaml:"isStrategyAd,omitempty"`
	StrategyAds             []AdData `json:"strategyAds,omitempty" yaml:"strategyAds,omitempty"`
}

// NewMessage builds a message with a fresh id.
func NewMessage(role Role, content string) Message {
	return Message{ID: NewID(), Role: role, Content: content}
}

// NewID mints a message id.
func NewID() string {
	return uuid.NewString()
}

// HasPayload reports whether the message carries anything besides text.
func (m Message) HasPayload() bool {
	return m.ShowFacebookLogin || m.ShowCampaignReadyButton || m.AdPreview != nil || len(m.StrategyAds) > 0
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	if m.AdPreview != nil {
		ad := m.AdPreview.Clone()
		out.AdPreview = &ad
	}
	if m.StrategyAds != nil {
		out.StrategyAds = make([]AdData, len(m.StrategyAds))
		for i, ad := range m.StrategyAds {
			out.StrategyAds[i] = ad.Clone()
		}
	}
	return out
}

// CloneMessages deep-copies a transcript.
func CloneMessages(in []Message) []Message {
	if in == nil {
		return nil
	}
	out := make([]Message, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
