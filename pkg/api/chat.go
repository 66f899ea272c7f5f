package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/campainly/campaigner/internal/transport"
	"github.com/campainly/campaigner/pkg/constants"
)

// Endpoint selects which chat route a conversation talks to.
type Endpoint string

// Chat routes.
const (
	EndpointChat       Endpoint = constants.PathChat
	EndpointOnboarding Endpoint = constants.PathChat
	EndpointStrategy   Endpoint = constants.PathStrategyChat
)

// ChatRequest is the body of every chat turn.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the backend's answer to a chat turn.
type ChatResponse struct {
	Message        string          `json:"message"`
	ConversationID string          `json:"conversation_id"`
	IsComplete     bool            `json:"is_complete"`
	StrategySchema json.RawMessage `json:"strategy_schema,omitempty"`
}

// HasStrategySchema reports whether a structured schema came back.
func (r *ChatResponse) HasStrategySchema() bool {
	s := string(r.StrategySchema)
	return s != "" && s != "null"
}

// SendChat posts one turn to endpoint. conversationID is omitted when
// empty.
func (c *Client) SendChat(ctx context.Context, endpoint Endpoint, message, conversationID string) (*ChatResponse, error) {
	var out ChatResponse
	err := c.t.Do(ctx, transport.Request{
		Method:    http.MethodPost,
		Path:      string(endpoint),
		Body:      ChatRequest{Message: message, ConversationID: conversationID},
		Operation: "chat turn",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateStrategy asks the backend to build a strategy from the brief and
// media already uploaded in the conversation.
func (c *Client) GenerateStrategy(ctx context.Context, conversationID string) (*ChatResponse, error) {
	var out ChatResponse
	err := c.t.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        constants.PathBriefAndMedia,
		Body:        ChatRequest{Message: "", ConversationID: conversationID},
		RequireAuth: true,
		Operation:   "strategy generation",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
