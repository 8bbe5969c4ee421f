// Package survey implements the article-attached knowledge check: authoring
// drafts with an exclusive correct-option marker, the create/update/delete
// lifecycle tied to the parent article, and learner attempts graded locally
// before answers are persisted.
package survey

import (
	"github.com/awarehub/console/internal/normalize"
)

// Option is the canonical read-side option. Correct may be true on more than
// one option of a question; the read path tolerates whatever the backend
// returns; only authoring enforces exclusivity.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"isCorrect"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

type Survey struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ArticleID string     `json:"articleId,omitempty"`
	Questions []Question `json:"questions"`
}

// AnswerSet is the learner's in-progress selection, question id to option id.
// Held client-side only; discarded on retake.
type AnswerSet map[string]string

// FromPayload extracts the canonical survey from whatever shape the backend
// returned. Question and option order is preserved exactly as received. The
// second return is false when the payload holds nothing survey-shaped.
func FromPayload(payload any) (Survey, bool) {
	obj := normalize.Object(payload, "survey", "data")
	if obj == nil {
		return Survey{}, false
	}
	questions, ok := obj["questions"].([]any)
	if !ok {
		return Survey{}, false
	}
	s := Survey{
		ID:        normalize.Text(obj, "id", "_id"),
		Title:     normalize.Text(obj, "title"),
		ArticleID: normalize.Text(obj, "articleId", "article_id"),
	}
	for _, q := range questions {
		qobj, ok := q.(map[string]any)
		if !ok {
			continue
		}
		question := Question{
			ID:   normalize.Text(qobj, "id", "_id"),
			Text: normalize.Text(qobj, "questionText", "text", "question"),
		}
		for _, o := range normalize.Collection(qobj["options"]) {
			question.Options = append(question.Options, Option{
				ID:      normalize.Text(o, "id", "_id"),
				Text:    normalize.Text(o, "optionText", "text"),
				Correct: normalize.Bool(o, "isCorrect", "is_correct", "correct"),
			})
		}
		s.Questions = append(s.Questions, question)
	}
	return s, true
}
