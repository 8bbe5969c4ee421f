package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/awarehub/console/internal/backend"
	"github.com/awarehub/console/internal/metrics"
	"github.com/awarehub/console/internal/survey"
)

// GET /api/surveys/article/{articleID}
//
// An article without a survey is a normal answer, not a 404: the response
// carries a null survey so the article form knows to open an empty editor.
func SurveyByArticleHandler(svc survey.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		payload, err := svc.SurveyByArticle(r.Context(), articleID)
		if err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				writeJSON(w, http.StatusOK, map[string]any{"survey": nil})
				return
			}
			writeError(w, err)
			return
		}
		s, ok := survey.FromPayload(payload)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"survey": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"survey": s})
	}
}

type gradeRequest struct {
	Answers map[string]string `json:"answers"` // question id -> option id
}

type gradeResponse struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
	Persisted  bool    `json:"persisted"`
}

// POST /api/surveys/article/{articleID}/grade
//
// Grades an attempt against the article's survey. The score is computed from
// the submitted answers before anything is sent upstream; a failed answer
// upload downgrades Persisted but never the grade.
func GradeSurveyHandler(svc survey.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		var req gradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		payload, err := svc.SurveyByArticle(r.Context(), articleID)
		if err != nil {
			writeError(w, err)
			return
		}
		s, ok := survey.FromPayload(payload)
		if !ok {
			writeError(w, backend.ErrNotFound)
			return
		}

		attempt := survey.NewAttempt(svc, s)
		for questionID, optionID := range req.Answers {
			attempt.Select(questionID, optionID)
		}
		res, err := attempt.Submit(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		persisted := res.PersistErr == nil
		metrics.Metrics.SurveySubmissions.WithLabelValues(strconv.FormatBool(persisted)).Inc()
		writeJSON(w, http.StatusOK, gradeResponse{
			Score:      res.Score,
			Total:      res.Total,
			Percentage: res.Percentage,
			Passed:     res.Passed,
			Persisted:  persisted,
		})
	}
}
