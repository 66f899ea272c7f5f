package api

import (
	"context"
	"net/http"

	"github.com/campainly/campaigner/internal/transport"
	"github.com/campainly/campaigner/pkg/constants"
)

// ContactDetails is what the user leaves for the sales follow-up.
type ContactDetails struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	UserID      string `json:"user_id,omitempty"`
}

// SubmitContactDetails posts contact details. The token is attached when
// one is stored but is not required.
func (c *Client) SubmitContactDetails(ctx context.Context, details ContactDetails) error {
	return c.t.Do(ctx, transport.Request{
		Method:    http.MethodPost,
		Path:      constants.PathContactDetails,
		Body:      details,
		Operation: "contact details",
	}, nil)
}
