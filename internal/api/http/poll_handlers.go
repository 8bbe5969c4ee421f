package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/awarehub/console/internal/metrics"
	"github.com/awarehub/console/internal/poll"
)

// pollView is a poll plus its derived window flags. The flags are
// informational: voting stays open to the backend's judgement either way.
type pollView struct {
	poll.Poll
	Upcoming bool `json:"upcoming"`
	Expired  bool `json:"expired"`
}

func viewOf(p poll.Poll, now time.Time) pollView {
	return pollView{Poll: p, Upcoming: p.Upcoming(now), Expired: p.Expired(now)}
}

func GetPollsHandler(engine *poll.Engine, now poll.Clock) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		polls, err := engine.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		t := now()
		views := make([]pollView, 0, len(polls))
		for _, p := range polls {
			views = append(views, viewOf(p, t))
		}
		writeJSON(w, http.StatusOK, map[string]any{"polls": views})
	}
}

func CreatePollHandler(engine *poll.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req poll.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		created, err := engine.Create(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"poll": created})
	}
}

// POST /api/polls/{pollID}/vote
func VoteHandler(engine *poll.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OptionID string `json:"optionId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := engine.Vote(r.Context(), chi.URLParam(r, "pollID"), req.OptionID); err != nil {
			writeError(w, err)
			return
		}
		metrics.Metrics.VotesForwarded.Inc()
		writeJSON(w, http.StatusOK, map[string]string{"status": "voted"})
	}
}

func PollResultsHandler(engine *poll.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := engine.Results(r.Context(), chi.URLParam(r, "pollID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"poll": p})
	}
}

func DeletePollHandler(engine *poll.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Delete(r.Context(), chi.URLParam(r, "pollID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
