package survey

import (
	"context"
	"errors"

	"github.com/awarehub/console/internal/backend"
	"github.com/awarehub/console/internal/normalize"
)

// Service is the slice of the backend the survey engine needs. backend.Client
// satisfies it; tests use in-memory fakes.
type Service interface {
	SurveyByArticle(ctx context.Context, articleID string) (any, error)
	CreateSurvey(ctx context.Context, p backend.SurveyPayload) (any, error)
	UpdateSurvey(ctx context.Context, id string, p backend.SurveyPayload) (any, error)
	DeleteSurvey(ctx context.Context, id string) error
	SubmitAnswers(ctx context.Context, surveyID string, answers []backend.AnswerPayload) error
}

// Editor drives the per-article survey lifecycle from the article form:
// no survey -> draft questions -> persisted, and back to no survey when every
// question is removed. One editor instance owns one draft; there is no
// cross-instance coordination.
type Editor struct {
	svc   Service
	draft Draft
}

func NewEditor(svc Service) *Editor {
	return &Editor{svc: svc}
}

// Action says what Save did with the survey.
type Action string

const (
	ActionNone    Action = "none"
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// SaveOutcome reports the survey half of an article save. Err is non-nil when
// the survey call failed; the article's own result is unaffected either way.
type SaveOutcome struct {
	Action   Action `json:"action"`
	SurveyID string `json:"surveyId,omitempty"`
	Err      error  `json:"-"`
}

// Load seeds the draft from the article's persisted survey. An article with
// no survey is not an error: the draft simply starts empty.
func (e *Editor) Load(ctx context.Context, articleID string) error {
	payload, err := e.svc.SurveyByArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			e.draft = Draft{}
			return nil
		}
		return err
	}
	if s, ok := FromPayload(payload); ok {
		e.draft = draftFromSurvey(s)
	} else {
		e.draft = Draft{}
	}
	return nil
}

// Draft exposes the working copy for form edits.
func (e *Editor) Draft() *Draft {
	return &e.draft
}

// SetDraft replaces the working copy wholesale (form-driven callers post the
// whole question list back).
func (e *Editor) SetDraft(d Draft) {
	e.draft = d
}

// Save runs the lifecycle transition for the article's survey after the
// article itself has been saved:
//
//   - at least one valid question, no survey id: create
//   - at least one valid question, survey id held: update (same id)
//   - no valid questions, survey id held: delete the survey
//   - no valid questions, no survey id: nothing to do
//
// Failures are carried in the outcome, never returned: a survey failure must
// not roll back or mask the article save that preceded it.
func (e *Editor) Save(ctx context.Context, articleID, title string) SaveOutcome {
	valid := e.draft.validQuestions()

	if len(valid) == 0 {
		if e.draft.SurveyID == "" {
			return SaveOutcome{Action: ActionNone}
		}
		id := e.draft.SurveyID
		if err := e.svc.DeleteSurvey(ctx, id); err != nil && !errors.Is(err, backend.ErrNotFound) {
			return SaveOutcome{Action: ActionDeleted, SurveyID: id, Err: err}
		}
		e.draft = Draft{}
		return SaveOutcome{Action: ActionDeleted, SurveyID: id}
	}

	p := payload(title, articleID, valid)

	if e.draft.SurveyID != "" {
		if _, err := e.svc.UpdateSurvey(ctx, e.draft.SurveyID, p); err != nil {
			return SaveOutcome{Action: ActionUpdated, SurveyID: e.draft.SurveyID, Err: err}
		}
		return SaveOutcome{Action: ActionUpdated, SurveyID: e.draft.SurveyID}
	}

	res, err := e.svc.CreateSurvey(ctx, p)
	if err != nil {
		return SaveOutcome{Action: ActionCreated, Err: err}
	}
	if obj := normalize.Object(res, "survey", "data"); obj != nil {
		e.draft.SurveyID = normalize.Text(obj, "id", "_id")
	}
	return SaveOutcome{Action: ActionCreated, SurveyID: e.draft.SurveyID}
}
