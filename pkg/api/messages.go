package api

import (
	"context"
	"net/http"

	"github.com/campainly/campaigner/internal/transport"
	"github.com/campainly/campaigner/pkg/constants"
)

// StoredMessage is one persisted history entry. Content follows the
// "role: text" convention when the backend knows the author.
type StoredMessage struct {
	ID        ID     `json:"id"`
	UserID    ID     `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type messagesResponse struct {
	Messages []StoredMessage `json:"messages"`
}

// FetchMessages returns the signed-in user's message history.
func (c *Client) FetchMessages(ctx context.Context) ([]StoredMessage, error) {
	var out messagesResponse
	err := c.t.Do(ctx, transport.Request{
		Method:      http.MethodGet,
		Path:        constants.PathMessages,
		RequireAuth: true,
		Operation:   "message history",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Messages == nil {
		return []StoredMessage{}, nil
	}
	return out.Messages, nil
}
