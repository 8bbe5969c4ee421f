package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/awarehub/console/internal/backend"
	"github.com/awarehub/console/internal/logging"
	"github.com/awarehub/console/internal/metrics"
	"github.com/awarehub/console/internal/poll"
)

func TestMain(m *testing.M) {
	logging.Init("error", "console-test")
	metrics.Init()
	os.Exit(m.Run())
}

/* ---- fakes ---- */

// fakeBackend satisfies ArticleService, survey.Service and poll.Service.
type fakeBackend struct {
	surveyPayload   any
	surveyErr       error
	createSurveyErr error
	pollsPayload    any
	voteErr         error

	createdArticles []backend.ArticlePayload
	createdSurveys  []backend.SurveyPayload
	updatedSurveys  map[string]backend.SurveyPayload
	deletedSurveys  []string
	submissions     map[string][]backend.AnswerPayload
	submitErr       error
	votes           map[string]string
	createdPolls    []backend.PollPayload
	deletedPolls    []string
	pollCalls       int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		updatedSurveys: map[string]backend.SurveyPayload{},
		submissions:    map[string][]backend.AnswerPayload{},
		votes:          map[string]string{},
	}
}

func (f *fakeBackend) ListArticles(context.Context) (any, error) {
	return map[string]any{"articles": []any{}}, nil
}

func (f *fakeBackend) Article(_ context.Context, id string) (any, error) {
	return map[string]any{"article": map[string]any{"_id": id, "title": "Recycling Basics"}}, nil
}

func (f *fakeBackend) CreateArticle(_ context.Context, p backend.ArticlePayload) (any, error) {
	f.createdArticles = append(f.createdArticles, p)
	return map[string]any{"article": map[string]any{"_id": "a-new", "title": p.Title}}, nil
}

func (f *fakeBackend) UpdateArticle(_ context.Context, id string, p backend.ArticlePayload) (any, error) {
	return map[string]any{"article": map[string]any{"_id": id, "title": p.Title}}, nil
}

func (f *fakeBackend) DeleteArticle(context.Context, string) error { return nil }

func (f *fakeBackend) ListCategories(context.Context) (any, error) {
	return map[string]any{"categories": []any{}}, nil
}

func (f *fakeBackend) CreateCategory(_ context.Context, name string) (any, error) {
	return map[string]any{"category": map[string]any{"_id": "c1", "name": name}}, nil
}

func (f *fakeBackend) SurveyByArticle(context.Context, string) (any, error) {
	if f.surveyErr != nil {
		return nil, f.surveyErr
	}
	return f.surveyPayload, nil
}

func (f *fakeBackend) CreateSurvey(_ context.Context, p backend.SurveyPayload) (any, error) {
	if f.createSurveyErr != nil {
		return nil, f.createSurveyErr
	}
	f.createdSurveys = append(f.createdSurveys, p)
	return map[string]any{"survey": map[string]any{"_id": "s-new"}}, nil
}

func (f *fakeBackend) UpdateSurvey(_ context.Context, id string, p backend.SurveyPayload) (any, error) {
	f.updatedSurveys[id] = p
	return map[string]any{"survey": map[string]any{"_id": id}}, nil
}

func (f *fakeBackend) DeleteSurvey(_ context.Context, id string) error {
	f.deletedSurveys = append(f.deletedSurveys, id)
	return nil
}

func (f *fakeBackend) SubmitAnswers(_ context.Context, surveyID string, answers []backend.AnswerPayload) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submissions[surveyID] = answers
	return nil
}

func (f *fakeBackend) ListPolls(context.Context) (any, error) {
	f.pollCalls++
	return f.pollsPayload, nil
}

func (f *fakeBackend) CreatePoll(_ context.Context, p backend.PollPayload) (any, error) {
	f.pollCalls++
	f.createdPolls = append(f.createdPolls, p)
	return map[string]any{"poll": map[string]any{"_id": "p-new", "title": p.Title}}, nil
}

func (f *fakeBackend) DeletePoll(_ context.Context, id string) error {
	f.pollCalls++
	f.deletedPolls = append(f.deletedPolls, id)
	return nil
}

func (f *fakeBackend) Vote(_ context.Context, pollID, optionID string) error {
	f.pollCalls++
	if f.voteErr != nil {
		return f.voteErr
	}
	f.votes[pollID] = optionID
	return nil
}

func (f *fakeBackend) PollResults(context.Context, string) (any, error) {
	f.pollCalls++
	return f.pollsPayload, nil
}

/* ---- helpers ---- */

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newRouter(f *fakeBackend) chi.Router {
	r := chi.NewRouter()
	engine := poll.New(f, fixedNow)
	Mount(r, f, f, engine, fixedNow)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func twoQuestionSurveyPayload() map[string]any {
	return map[string]any{
		"survey": map[string]any{
			"_id":   "s1",
			"title": "Recycling Basics",
			"questions": []any{
				map[string]any{
					"_id":          "q1",
					"questionText": "What goes in the blue bin?",
					"options": []any{
						map[string]any{"_id": "q1a", "optionText": "Paper", "isCorrect": true},
						map[string]any{"_id": "q1b", "optionText": "Food waste", "isCorrect": false},
					},
				},
				map[string]any{
					"_id":          "q2",
					"questionText": "Which item is compostable?",
					"options": []any{
						map[string]any{"_id": "q2a", "optionText": "Glass", "isCorrect": false},
						map[string]any{"_id": "q2b", "optionText": "Apple core", "isCorrect": true},
					},
				},
			},
		},
	}
}

/* ---- surveys ---- */

func TestSurveyByArticleMissingIsNullNotError(t *testing.T) {
	f := newFakeBackend()
	f.surveyErr = backend.ErrNotFound
	rec, body := doJSON(t, newRouter(f), "GET", "/api/surveys/article/a1", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if v, ok := body["survey"]; !ok || v != nil {
		t.Fatalf("survey = %v, want explicit null", v)
	}
}

func TestGradeComputesScoreBeforePersisting(t *testing.T) {
	f := newFakeBackend()
	f.surveyPayload = twoQuestionSurveyPayload()

	rec, body := doJSON(t, newRouter(f), "POST", "/api/surveys/article/a1/grade", map[string]any{
		"answers": map[string]string{"q1": "q1a", "q2": "q2a"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if body["score"] != float64(1) || body["total"] != float64(2) {
		t.Fatalf("score/total = %v/%v, want 1/2", body["score"], body["total"])
	}
	if body["percentage"] != float64(50) || body["passed"] != false {
		t.Fatalf("percentage/passed = %v/%v", body["percentage"], body["passed"])
	}
	if body["persisted"] != true {
		t.Fatalf("persisted = %v, want true", body["persisted"])
	}
	if len(f.submissions["s1"]) != 2 {
		t.Fatalf("answers not forwarded: %+v", f.submissions)
	}
}

func TestGradeIncompleteRejectedLocally(t *testing.T) {
	f := newFakeBackend()
	f.surveyPayload = twoQuestionSurveyPayload()

	rec, _ := doJSON(t, newRouter(f), "POST", "/api/surveys/article/a1/grade", map[string]any{
		"answers": map[string]string{"q1": "q1a"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(f.submissions) != 0 {
		t.Fatalf("incomplete attempt reached the backend")
	}
}

func TestGradeSurvivesPersistFailure(t *testing.T) {
	f := newFakeBackend()
	f.surveyPayload = twoQuestionSurveyPayload()
	f.submitErr = errors.New("backend down")

	rec, body := doJSON(t, newRouter(f), "POST", "/api/surveys/article/a1/grade", map[string]any{
		"answers": map[string]string{"q1": "q1a", "q2": "q2b"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["score"] != float64(2) || body["passed"] != true {
		t.Fatalf("grade lost on persist failure: %v", body)
	}
	if body["persisted"] != false {
		t.Fatalf("persisted = %v, want false", body["persisted"])
	}
}

/* ---- articles ---- */

func validSurveyForm() map[string]any {
	return map[string]any{
		"questions": []any{
			map[string]any{
				"id":   "dq1",
				"text": "What goes in the blue bin?",
				"options": []any{
					map[string]any{"id": "do1", "text": "Paper", "isCorrect": true},
					map[string]any{"id": "do2", "text": "Food waste", "isCorrect": false},
				},
			},
		},
	}
}

func TestCreateArticleWithSurvey(t *testing.T) {
	f := newFakeBackend()
	rec, body := doJSON(t, newRouter(f), "POST", "/api/articles", map[string]any{
		"title":   "Recycling Basics",
		"content": "...",
		"survey":  validSurveyForm(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.createdArticles) != 1 || len(f.createdSurveys) != 1 {
		t.Fatalf("articles/surveys created = %d/%d, want 1/1", len(f.createdArticles), len(f.createdSurveys))
	}
	if f.createdSurveys[0].ArticleID != "a-new" {
		t.Fatalf("survey bound to %q, want the new article id", f.createdSurveys[0].ArticleID)
	}
	if body["surveyError"] != nil {
		t.Fatalf("unexpected surveyError: %v", body["surveyError"])
	}
}

func TestArticleSaveSurvivesSurveyFailure(t *testing.T) {
	f := newFakeBackend()
	f.createSurveyErr = &backend.APIError{Status: 500, Message: "boom"}

	rec, body := doJSON(t, newRouter(f), "POST", "/api/articles", map[string]any{
		"title":  "Recycling Basics",
		"survey": validSurveyForm(),
	})
	// the article saved, so the request as a whole did not fail
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if len(f.createdArticles) != 1 {
		t.Fatalf("article not created")
	}
	if body["surveyError"] == nil || body["surveyError"] == "" {
		t.Fatalf("survey failure not surfaced: %v", body)
	}
	if body["article"] == nil {
		t.Fatalf("article result missing from response")
	}
}

func TestUpdateArticleDeletesEmptiedSurvey(t *testing.T) {
	f := newFakeBackend()
	f.surveyPayload = twoQuestionSurveyPayload()

	rec, _ := doJSON(t, newRouter(f), "PUT", "/api/articles/a1", map[string]any{
		"title":  "Recycling Basics",
		"survey": map[string]any{"questions": []any{}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.deletedSurveys) != 1 || f.deletedSurveys[0] != "s1" {
		t.Fatalf("deleted = %v, want [s1]", f.deletedSurveys)
	}
}

func TestUpdateArticleUpdatesExistingSurvey(t *testing.T) {
	f := newFakeBackend()
	f.surveyPayload = twoQuestionSurveyPayload()

	rec, _ := doJSON(t, newRouter(f), "PUT", "/api/articles/a1", map[string]any{
		"title":  "Recycling Basics",
		"survey": validSurveyForm(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := f.updatedSurveys["s1"]; !ok {
		t.Fatalf("existing survey not updated: %+v", f.updatedSurveys)
	}
	if len(f.createdSurveys) != 0 {
		t.Fatalf("update path created a duplicate survey")
	}
}

/* ---- polls ---- */

func TestCreatePollValidationStaysLocal(t *testing.T) {
	f := newFakeBackend()
	rec, _ := doJSON(t, newRouter(f), "POST", "/api/polls", map[string]any{
		"title":   "Park cleanup day?",
		"options": []string{"Saturday", "  "},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if f.pollCalls != 0 {
		t.Fatalf("invalid poll reached the backend")
	}
}

func TestCreatePollStampsStartDate(t *testing.T) {
	f := newFakeBackend()
	rec, _ := doJSON(t, newRouter(f), "POST", "/api/polls", map[string]any{
		"title":   "Park cleanup day?",
		"options": []string{"Saturday", "Sunday"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := f.createdPolls[0].StartDate; got != "2025-06-01T12:00:00Z" {
		t.Fatalf("startDate = %q", got)
	}
	if f.createdPolls[0].PointsReward != poll.DefaultPointsReward {
		t.Fatalf("reward = %d, want default", f.createdPolls[0].PointsReward)
	}
}

func TestVoteForwardsOption(t *testing.T) {
	f := newFakeBackend()
	rec, _ := doJSON(t, newRouter(f), "POST", "/api/polls/p1/vote", map[string]any{"optionId": "o2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if f.votes["p1"] != "o2" {
		t.Fatalf("vote not forwarded: %v", f.votes)
	}
}

func TestVoteWithoutOptionRejectedLocally(t *testing.T) {
	f := newFakeBackend()
	rec, _ := doJSON(t, newRouter(f), "POST", "/api/polls/p1/vote", map[string]any{"optionId": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if f.pollCalls != 0 {
		t.Fatalf("empty vote reached the backend")
	}
}

func TestVoteConflictPassesBackendStatusThrough(t *testing.T) {
	f := newFakeBackend()
	f.voteErr = &backend.APIError{Status: 409, Message: "already voted"}
	rec, body := doJSON(t, newRouter(f), "POST", "/api/polls/p1/vote", map[string]any{"optionId": "o1"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if body["error"] != "already voted" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestListPollsAddsWindowFlags(t *testing.T) {
	f := newFakeBackend()
	f.pollsPayload = map[string]any{"polls": []any{
		map[string]any{"_id": "p-past", "title": "Closed", "expiryDate": "2025-05-01T00:00:00Z"},
		map[string]any{"_id": "p-future", "title": "Scheduled", "startDate": "2025-07-01T00:00:00Z"},
	}}

	rec, body := doJSON(t, newRouter(f), "GET", "/api/polls", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	polls, _ := body["polls"].([]any)
	if len(polls) != 2 {
		t.Fatalf("polls = %d, want 2", len(polls))
	}
	past := polls[0].(map[string]any)
	future := polls[1].(map[string]any)
	if past["expired"] != true || past["upcoming"] != false {
		t.Fatalf("past poll flags: %v", past)
	}
	if future["upcoming"] != true || future["expired"] != false {
		t.Fatalf("future poll flags: %v", future)
	}
}
