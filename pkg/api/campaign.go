package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/campainly/campaigner/internal/transport"
	"github.com/campainly/campaigner/pkg/constants"
)

type saveRequest struct {
	StrategyJSON json.RawMessage `json:"strategy_json"`
}

// SaveResponse is returned by the campaign save.
type SaveResponse struct {
	CampaignID ID `json:"campaign_id"`
}

// SaveCampaign persists a finalized strategy.
func (c *Client) SaveCampaign(ctx context.Context, strategy json.RawMessage) (*SaveResponse, error) {
	var out SaveResponse
	err := c.t.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        constants.PathCampaignSave,
		Body:        saveRequest{StrategyJSON: strategy},
		RequireAuth: true,
		Operation:   "campaign save",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
