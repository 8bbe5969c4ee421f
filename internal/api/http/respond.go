package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/awarehub/console/internal/backend"
	"github.com/awarehub/console/internal/metrics"
	"github.com/awarehub/console/internal/poll"
	"github.com/awarehub/console/internal/survey"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine and backend failures to HTTP statuses. Backend
// rejections keep their original status and message; local validation is 400.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		metrics.Metrics.BackendErrors.Inc()
		msg := apiErr.Message
		if msg == "" {
			msg = "backend error"
		}
		writeJSON(w, apiErr.Status, map[string]string{"error": msg})
	case errors.Is(err, backend.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, survey.ErrUnanswered),
		errors.Is(err, poll.ErrTitleRequired),
		errors.Is(err, poll.ErrTooFewOptions),
		errors.Is(err, poll.ErrOptionRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
	}
}
