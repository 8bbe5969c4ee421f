package poll

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/awarehub/console/internal/backend"
)

// DefaultPointsReward is granted for participation when the creator does not
// set a reward.
const DefaultPointsReward = 5

var (
	ErrTitleRequired  = errors.New("poll: title required")
	ErrTooFewOptions  = errors.New("poll: at least two options required")
	ErrOptionRequired = errors.New("poll: an option must be selected")
)

// Service is the slice of the backend the poll engine needs.
type Service interface {
	ListPolls(ctx context.Context) (any, error)
	CreatePoll(ctx context.Context, p backend.PollPayload) (any, error)
	DeletePoll(ctx context.Context, id string) error
	Vote(ctx context.Context, pollID, optionID string) error
	PollResults(ctx context.Context, pollID string) (any, error)
}

type Clock func() time.Time

type Engine struct {
	svc Service
	now Clock
}

func New(svc Service, now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{svc: svc, now: now}
}

// CreateRequest is the admin form. Options are collapsed to their non-empty
// trimmed entries before validation.
type CreateRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PointsReward int        `json:"pointsReward"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	Options      []string   `json:"options"`
}

// Create validates locally and persists the poll. The start date is always
// the creation instant: this form cannot schedule a poll to open later. The
// expiry is passed through as given; ordering against the start date is the
// backend's call. Validation failures never reach the network.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (Poll, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Poll{}, ErrTitleRequired
	}
	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		if t := strings.TrimSpace(o); t != "" {
			options = append(options, t)
		}
	}
	if len(options) < 2 {
		return Poll{}, ErrTooFewOptions
	}
	reward := req.PointsReward
	if reward <= 0 {
		reward = DefaultPointsReward
	}

	p := backend.PollPayload{
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		PointsReward: reward,
		StartDate:    e.now().UTC().Format(time.RFC3339),
		Options:      options,
	}
	if req.ExpiryDate != nil {
		p.ExpiryDate = req.ExpiryDate.UTC().Format(time.RFC3339)
	}

	res, err := e.svc.CreatePoll(ctx, p)
	if err != nil {
		return Poll{}, err
	}
	created, _ := FromPayload(res)
	return created, nil
}

// List fetches every poll with its userVoted flag. Callers re-fetch after
// voting; that refresh is the only idempotency mechanism the client has.
func (e *Engine) List(ctx context.Context) ([]Poll, error) {
	payload, err := e.svc.ListPolls(ctx)
	if err != nil {
		return nil, err
	}
	return ListFromPayload(payload), nil
}

// Vote casts a single-choice vote. There is no local double-vote guard;
// the backend rejects repeats and the caller refreshes the list after.
func (e *Engine) Vote(ctx context.Context, pollID, optionID string) error {
	if strings.TrimSpace(optionID) == "" {
		return ErrOptionRequired
	}
	return e.svc.Vote(ctx, pollID, optionID)
}

// Results fetches the tallied poll. Percentages arrive computed; options come
// back sorted by display order regardless of how votes moved.
func (e *Engine) Results(ctx context.Context, pollID string) (Poll, error) {
	payload, err := e.svc.PollResults(ctx, pollID)
	if err != nil {
		return Poll{}, err
	}
	p, ok := FromPayload(payload)
	if !ok {
		return Poll{}, backend.ErrNotFound
	}
	return p, nil
}

// Delete removes a poll; the backend cascades to its votes.
func (e *Engine) Delete(ctx context.Context, pollID string) error {
	return e.svc.DeletePoll(ctx, pollID)
}
