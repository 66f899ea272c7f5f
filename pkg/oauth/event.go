package oauth

import (
	"bytes"
	"encoding/json"
)

// Message types posted by the login window.
const (
	TypeSuccess = "facebook_auth_success"
	TypeError   = "facebook_auth_error"
)

// Event is one message from the login window together with the origin it
// was posted from.
type Event struct {
	Origin string
	Data   json.RawMessage
}

// Payload is the decoded message body.
type Payload struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// User carries the provider credentials of a successful login.
type User struct {
	AccessToken  string         `json:"access_token,omitempty"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	ExpiresAt    StringOrNumber `json:"expires_at,omitempty"`
}

// Token returns the bearer token, preferring the top-level one.
func (p Payload) Token() string {
	if p.AccessToken != "" {
		return p.AccessToken
	}
	if p.User != nil {
		return p.User.AccessToken
	}
	return ""
}

// StringOrNumber is a string that may arrive as a JSON number.
type StringOrNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (f *StringOrNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = StringOrNumber(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = StringOrNumber(n.String())
	}
	return nil
}
