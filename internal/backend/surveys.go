package backend

import (
	"context"
	"net/http"
)

// Wire shapes for the survey endpoints. Field names are the backend's
// contract and must not drift: only non-empty, already-trimmed option text
// belongs in OptionPayload (the survey engine enforces that before building
// a payload).

type OptionPayload struct {
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
}

type QuestionPayload struct {
	QuestionText string          `json:"questionText"`
	Options      []OptionPayload `json:"options"`
}

type SurveyPayload struct {
	Title     string            `json:"title"`
	ArticleID string            `json:"articleId"`
	Questions []QuestionPayload `json:"questions"`
}

type AnswerPayload struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// SurveyByArticle fetches the survey attached to an article. Returns
// ErrNotFound when the article has none.
func (c *Client) SurveyByArticle(ctx context.Context, articleID string) (any, error) {
	return c.get(ctx, "/api/surveys/article/"+articleID)
}

func (c *Client) CreateSurvey(ctx context.Context, p SurveyPayload) (any, error) {
	return c.do(ctx, http.MethodPost, "/api/surveys", p)
}

func (c *Client) UpdateSurvey(ctx context.Context, id string, p SurveyPayload) (any, error) {
	return c.do(ctx, http.MethodPut, "/api/surveys/"+id, p)
}

func (c *Client) DeleteSurvey(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/surveys/"+id, nil)
	return err
}

// SubmitAnswers persists a learner's raw answer list. Grading has already
// happened locally by the time this is called.
func (c *Client) SubmitAnswers(ctx context.Context, surveyID string, answers []AnswerPayload) error {
	_, err := c.do(ctx, http.MethodPost, "/api/surveys/"+surveyID+"/submit",
		map[string]any{"answers": answers})
	return err
}
