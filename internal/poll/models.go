// Package poll implements the opinion-poll engine: creation with local
// validation, single-choice voting, and a rendering model for
// backend-computed tallies. The backend is authoritative for counts,
// percentages and the one-vote-per-user rule; this engine never recomputes a
// tally and never guards against double votes on its own.
package poll

import (
	"sort"
	"time"

	"github.com/awarehub/console/internal/normalize"
)

type Voter struct {
	UserID   string     `json:"userId"`
	UserName string     `json:"userName"`
	VotedAt  *time.Time `json:"votedAt,omitempty"`
}

// Option carries the backend's tally verbatim. Percentage is rendered as
// provided; recomputing it from counts here would diverge on rounding.
type Option struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Order      int     `json:"order"`
	VotesCount int     `json:"votesCount"`
	Percentage float64 `json:"percentage"`
	Voters     []Voter `json:"voters,omitempty"`
}

type Poll struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	PointsReward int        `json:"pointsReward"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	AdminName    string     `json:"adminName,omitempty"`
	Options      []Option   `json:"options"`
	TotalVotes   int        `json:"totalVotes"`
	UserVoted    bool       `json:"userVoted"`
}

// Upcoming reports whether the poll's window has not opened yet. Informational
// only: it never gates voting, which stays at the backend's discretion.
func (p Poll) Upcoming(now time.Time) bool {
	return p.StartDate != nil && p.StartDate.After(now)
}

// Expired reports whether the poll's window has closed. Independent of
// Upcoming and likewise informational.
func (p Poll) Expired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}

// sortOptions orders options by their backend-assigned display order, never
// by vote count, so layout stays put as tallies shift. The sort is stable:
// ties keep the backend's ordering.
func sortOptions(opts []Option) {
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].Order < opts[j].Order
	})
}

// FromObject decodes one poll object.
func FromObject(obj map[string]any) Poll {
	p := Poll{
		ID:           normalize.Text(obj, "id", "_id"),
		Title:        normalize.Text(obj, "title"),
		Description:  normalize.Text(obj, "description"),
		PointsReward: normalize.Int(obj, "pointsReward", "points_reward"),
		StartDate:    parseTime(normalize.Text(obj, "startDate", "start_date")),
		ExpiryDate:   parseTime(normalize.Text(obj, "expiryDate", "expiry_date")),
		TotalVotes:   normalize.Int(obj, "totalVotes", "total_votes"),
		UserVoted:    normalize.Bool(obj, "userVoted", "user_voted", "voted"),
	}
	if admin, ok := obj["admin"].(map[string]any); ok {
		p.AdminName = normalize.Text(admin, "name")
	}
	for _, o := range normalize.Collection(obj["options"]) {
		opt := Option{
			ID:         normalize.Text(o, "id", "_id"),
			Text:       normalize.Text(o, "text", "optionText"),
			Order:      normalize.Int(o, "order"),
			VotesCount: normalize.Int(o, "votesCount", "votes_count", "votes"),
			Percentage: normalize.Float(o, "percentage"),
		}
		for _, v := range normalize.Collection(o["voters"]) {
			opt.Voters = append(opt.Voters, Voter{
				UserID:   normalize.Text(v, "userId", "user_id", "id"),
				UserName: normalize.Text(v, "userName", "user_name", "name"),
				VotedAt:  parseTime(normalize.Text(v, "votedAt", "voted_at")),
			})
		}
		p.Options = append(p.Options, opt)
	}
	sortOptions(p.Options)
	return p
}

// FromPayload unwraps a single-poll response.
func FromPayload(payload any) (Poll, bool) {
	obj := normalize.Object(payload, "poll", "data")
	if obj == nil {
		return Poll{}, false
	}
	return FromObject(obj), true
}

// ListFromPayload unwraps a poll collection response.
func ListFromPayload(payload any) []Poll {
	objs := normalize.Collection(payload, "polls")
	out := make([]Poll, 0, len(objs))
	for _, obj := range objs {
		out = append(out, FromObject(obj))
	}
	return out
}

// parseTime is total: anything that is not RFC 3339 comes back nil.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
