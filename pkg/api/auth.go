package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/campainly/campaigner/internal/transport"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
)

type loginURLResponse struct {
	URL string `json:"url"`
}

// FacebookLoginURL asks the backend for the provider authorization URL.
func (c *Client) FacebookLoginURL(ctx context.Context, conversationID string) (string, error) {
	var query url.Values
	if conversationID != "" {
		query = url.Values{"conversation_id": {conversationID}}
	}

	var out loginURLResponse
	err := c.t.Do(ctx, transport.Request{
		Method:    http.MethodGet,
		Path:      constants.PathFacebookLogin,
		Query:     query,
		Operation: "login url",
	}, &out)
	if err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.NewParseError("json", constants.PathFacebookLogin, "no login URL received", nil)
	}
	return out.URL, nil
}
