package survey

import (
	"strings"

	"github.com/google/uuid"

	"github.com/awarehub/console/internal/backend"
)

// defaultOptionSlots is how many empty option fields a fresh question opens
// with. Slots left blank are dropped at submission.
const defaultOptionSlots = 4

type DraftOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"isCorrect"`
}

type DraftQuestion struct {
	ID      string        `json:"id"`
	Text    string        `json:"text"`
	Options []DraftOption `json:"options"`
}

// Draft is the editor's working copy of an article's survey. SurveyID is
// empty until the draft has been persisted (or loaded from an existing
// survey); it decides create-vs-update at save time.
type Draft struct {
	SurveyID  string          `json:"surveyId,omitempty"`
	Questions []DraftQuestion `json:"questions"`
}

func newDraftQuestion() DraftQuestion {
	q := DraftQuestion{ID: uuid.NewString()}
	for i := 0; i < defaultOptionSlots; i++ {
		q.Options = append(q.Options, DraftOption{ID: uuid.NewString()})
	}
	return q
}

// AddQuestion appends a blank question with the default option slots and
// returns its id.
func (d *Draft) AddQuestion() string {
	q := newDraftQuestion()
	d.Questions = append(d.Questions, q)
	return q.ID
}

func (d *Draft) RemoveQuestion(questionID string) {
	kept := d.Questions[:0]
	for _, q := range d.Questions {
		if q.ID != questionID {
			kept = append(kept, q)
		}
	}
	d.Questions = kept
}

func (d *Draft) SetQuestionText(questionID, text string) {
	for i := range d.Questions {
		if d.Questions[i].ID == questionID {
			d.Questions[i].Text = text
			return
		}
	}
}

func (d *Draft) SetOptionText(questionID, optionID, text string) {
	q := d.question(questionID)
	if q == nil {
		return
	}
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			q.Options[i].Text = text
			return
		}
	}
}

// SetCorrect marks one option of a question correct and clears the marker
// from every other option of that question. Single-answer semantics: a
// question authored here never carries two correct options, even though the
// read model tolerates it.
func (d *Draft) SetCorrect(questionID, optionID string) {
	q := d.question(questionID)
	if q == nil {
		return
	}
	for i := range q.Options {
		q.Options[i].Correct = q.Options[i].ID == optionID
	}
}

func (d *Draft) question(questionID string) *DraftQuestion {
	for i := range d.Questions {
		if d.Questions[i].ID == questionID {
			return &d.Questions[i]
		}
	}
	return nil
}

// valid reports whether a question may be submitted: non-empty trimmed text,
// at least two options with non-empty trimmed text, at least one correct.
func (q DraftQuestion) valid() bool {
	if strings.TrimSpace(q.Text) == "" {
		return false
	}
	filled, correct := 0, false
	for _, o := range q.Options {
		if strings.TrimSpace(o.Text) == "" {
			continue
		}
		filled++
		if o.Correct {
			correct = true
		}
	}
	return filled >= 2 && correct
}

// validQuestions drops incomplete questions silently. The remainder is what
// gets persisted; an empty result means the survey should not exist.
func (d *Draft) validQuestions() []DraftQuestion {
	out := make([]DraftQuestion, 0, len(d.Questions))
	for _, q := range d.Questions {
		if q.valid() {
			out = append(out, q)
		}
	}
	return out
}

// payload builds the submission body from the valid questions only. Blank
// option slots are not sent.
func payload(title, articleID string, questions []DraftQuestion) backend.SurveyPayload {
	p := backend.SurveyPayload{
		Title:     title,
		ArticleID: articleID,
		Questions: make([]backend.QuestionPayload, 0, len(questions)),
	}
	for _, q := range questions {
		qp := backend.QuestionPayload{QuestionText: strings.TrimSpace(q.Text)}
		for _, o := range q.Options {
			text := strings.TrimSpace(o.Text)
			if text == "" {
				continue
			}
			qp.Options = append(qp.Options, backend.OptionPayload{
				OptionText: text,
				IsCorrect:  o.Correct,
			})
		}
		p.Questions = append(p.Questions, qp)
	}
	return p
}

// draftFromSurvey seeds an editor draft from a persisted survey (the edit
// path). Backend ids are kept so the form can address rows; missing ids get
// fresh ones.
func draftFromSurvey(s Survey) Draft {
	d := Draft{SurveyID: s.ID}
	for _, q := range s.Questions {
		dq := DraftQuestion{ID: q.ID, Text: q.Text}
		if dq.ID == "" {
			dq.ID = uuid.NewString()
		}
		for _, o := range q.Options {
			do := DraftOption{ID: o.ID, Text: o.Text, Correct: o.Correct}
			if do.ID == "" {
				do.ID = uuid.NewString()
			}
			dq.Options = append(dq.Options, do)
		}
		d.Questions = append(d.Questions, dq)
	}
	return d
}
