package survey

import (
	"context"
	"errors"

	"github.com/awarehub/console/internal/backend"
)

// PassThreshold is the percentage at or above which an attempt is framed as a
// success. Presentation only; nothing in the data changes either way.
const PassThreshold = 70.0

// ErrUnanswered rejects a submission before any network call when one or
// more questions have no recorded answer.
var ErrUnanswered = errors.New("survey: not all questions answered")

// Attempt is one learner's pass through a survey. Selections live only in
// memory until Submit.
type Attempt struct {
	svc     Service
	survey  Survey
	answers AnswerSet
}

func NewAttempt(svc Service, s Survey) *Attempt {
	return &Attempt{svc: svc, survey: s, answers: AnswerSet{}}
}

func (a *Attempt) Survey() Survey { return a.survey }

// Select records the chosen option for a question. Re-selecting overwrites:
// last write wins.
func (a *Attempt) Select(questionID, optionID string) {
	a.answers[questionID] = optionID
}

// Answers returns a copy of the current selections.
func (a *Attempt) Answers() AnswerSet {
	out := make(AnswerSet, len(a.answers))
	for q, o := range a.answers {
		out[q] = o
	}
	return out
}

// Result is a graded attempt. Score and Percentage come from client-held data
// alone; PersistErr reports the best-effort answer upload separately and
// never invalidates the grade.
type Result struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
	PersistErr error   `json:"-"`
}

// Submit grades the attempt. Order is fixed: the completeness gate and the
// score computation use only local state, then the raw answer list is sent to
// the backend. A persistence failure is reported in the result, not as an
// error; the learner's grade stands regardless of the network.
func (a *Attempt) Submit(ctx context.Context) (Result, error) {
	for _, q := range a.survey.Questions {
		if a.answers[q.ID] == "" {
			return Result{}, ErrUnanswered
		}
	}

	score := a.score()
	total := len(a.survey.Questions)
	res := Result{
		Score: score,
		Total: total,
	}
	if total > 0 {
		res.Percentage = float64(score) / float64(total) * 100
	}
	res.Passed = res.Percentage >= PassThreshold

	answers := make([]backend.AnswerPayload, 0, total)
	for _, q := range a.survey.Questions {
		answers = append(answers, backend.AnswerPayload{
			QuestionID: q.ID,
			OptionID:   a.answers[q.ID],
		})
	}
	res.PersistErr = a.svc.SubmitAnswers(ctx, a.survey.ID, answers)
	return res, nil
}

func (a *Attempt) score() int {
	score := 0
	for _, q := range a.survey.Questions {
		selected := a.answers[q.ID]
		for _, o := range q.Options {
			if o.ID == selected && o.Correct {
				score++
				break
			}
		}
	}
	return score
}

// Retake clears every selection so the learner starts over. Answers already
// persisted by an earlier submission are untouched.
func (a *Attempt) Retake() {
	a.answers = AnswerSet{}
}
