package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/awarehub/console/internal/backend"
	"github.com/awarehub/console/internal/logging"
	"github.com/awarehub/console/internal/metrics"
	"github.com/awarehub/console/internal/normalize"
	"github.com/awarehub/console/internal/survey"
)

// ArticleService is the slice of the backend the article handlers need.
// *backend.Client satisfies it.
type ArticleService interface {
	ListArticles(ctx context.Context) (any, error)
	Article(ctx context.Context, id string) (any, error)
	CreateArticle(ctx context.Context, p backend.ArticlePayload) (any, error)
	UpdateArticle(ctx context.Context, id string, p backend.ArticlePayload) (any, error)
	DeleteArticle(ctx context.Context, id string) error
	ListCategories(ctx context.Context) (any, error)
	CreateCategory(ctx context.Context, name string) (any, error)
}

type articleRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"categoryId"`
	Author     string `json:"author"`
	Source     string `json:"source"`
	// Survey is the article's knowledge check. Absent means "leave the survey
	// alone"; present with zero valid questions means "remove it".
	Survey *surveyForm `json:"survey,omitempty"`
}

type surveyForm struct {
	Questions []survey.DraftQuestion `json:"questions"`
}

func (a articleRequest) payload() backend.ArticlePayload {
	return backend.ArticlePayload{
		Title:      a.Title,
		Content:    a.Content,
		CategoryID: a.CategoryID,
		Author:     a.Author,
		Source:     a.Source,
	}
}

// articleSaveResponse is the combined result of an article save. The survey
// half reports its own outcome: a survey failure shows up in surveyError while
// the article stays saved.
type articleSaveResponse struct {
	Article     any                 `json:"article"`
	Survey      *survey.SaveOutcome `json:"survey,omitempty"`
	SurveyError string              `json:"surveyError,omitempty"`
}

func GetArticlesHandler(svc ArticleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := svc.ListArticles(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

func GetArticleHandler(svc ArticleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := svc.Article(r.Context(), chi.URLParam(r, "articleID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// POST /api/articles
//
// Saves the article first, then runs the survey lifecycle against the new
// article id. The two results are independent: if the survey call fails the
// article is still created and the response says so via surveyError.
func CreateArticleHandler(articles ArticleService, surveys survey.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req articleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		created, err := articles.CreateArticle(r.Context(), req.payload())
		if err != nil {
			writeError(w, err)
			return
		}
		resp := articleSaveResponse{Article: created}
		articleID := ""
		if obj := normalize.Object(created, "article", "data"); obj != nil {
			articleID = normalize.Text(obj, "id", "_id")
		}
		if req.Survey != nil && articleID != "" {
			editor := survey.NewEditor(surveys)
			editor.SetDraft(survey.Draft{Questions: req.Survey.Questions})
			applySurveyOutcome(&resp, editor.Save(r.Context(), articleID, req.Title))
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// PUT /api/articles/{articleID}
//
// Same two-step save as create, except the survey draft is seeded from the
// article's persisted survey first so the lifecycle knows whether to update
// or delete instead of create.
func UpdateArticleHandler(articles ArticleService, surveys survey.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		var req articleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		updated, err := articles.UpdateArticle(r.Context(), articleID, req.payload())
		if err != nil {
			writeError(w, err)
			return
		}
		resp := articleSaveResponse{Article: updated}
		if req.Survey != nil {
			editor := survey.NewEditor(surveys)
			if err := editor.Load(r.Context(), articleID); err != nil {
				// without the existing survey id a save could duplicate it,
				// so report and skip rather than guess
				resp.SurveyError = "survey could not be loaded: " + err.Error()
				logging.Logger.Warn().Err(err).Str("article_id", articleID).Msg("survey load failed during article update")
				writeJSON(w, http.StatusOK, resp)
				return
			}
			editor.SetDraft(survey.Draft{
				SurveyID:  editor.Draft().SurveyID,
				Questions: req.Survey.Questions,
			})
			applySurveyOutcome(&resp, editor.Save(r.Context(), articleID, req.Title))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func DeleteArticleHandler(svc ArticleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteArticle(r.Context(), chi.URLParam(r, "articleID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func GetCategoriesHandler(svc ArticleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := svc.ListCategories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

func CreateCategoryHandler(svc ArticleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		payload, err := svc.CreateCategory(r.Context(), req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, payload)
	}
}

func applySurveyOutcome(resp *articleSaveResponse, outcome survey.SaveOutcome) {
	resp.Survey = &outcome
	metrics.Metrics.SurveySaves.WithLabelValues(string(outcome.Action)).Inc()
	if outcome.Err != nil {
		resp.SurveyError = outcome.Err.Error()
		logging.Logger.Warn().Err(outcome.Err).Str("action", string(outcome.Action)).Msg("survey save failed after article save")
	}
}
