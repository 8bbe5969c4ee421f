package backend

import (
	"context"
	"net/http"
)

// PollPayload is the poll creation body. StartDate is always the creation
// instant (the poll engine sets it); ExpiryDate and Description are omitted
// when empty.
type PollPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	PointsReward int      `json:"pointsReward"`
	StartDate    string   `json:"startDate"`
	ExpiryDate   string   `json:"expiryDate,omitempty"`
	Options      []string `json:"options"`
}

func (c *Client) ListPolls(ctx context.Context) (any, error) {
	return c.get(ctx, "/api/polls")
}

func (c *Client) CreatePoll(ctx context.Context, p PollPayload) (any, error) {
	return c.do(ctx, http.MethodPost, "/api/polls", p)
}

func (c *Client) DeletePoll(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/polls/"+id, nil)
	return err
}

// Vote casts a single-choice vote. The backend is the sole enforcer of the
// one-vote-per-user invariant; the client sends and reports.
func (c *Client) Vote(ctx context.Context, pollID, optionID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/polls/"+pollID+"/vote",
		map[string]string{"optionId": optionID})
	return err
}

// PollResults fetches the tallied poll, including per-option counts,
// percentages and (for admins) voter details.
func (c *Client) PollResults(ctx context.Context, pollID string) (any, error) {
	return c.get(ctx, "/api/polls/"+pollID+"/results")
}
