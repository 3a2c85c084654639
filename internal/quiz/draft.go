package quiz

import (
	"github.com/google/uuid"

	"cup-admin/internal/models"
)

// Draft is the in-memory authoring state for a quiz form. Options carry a
// client-only identifier for stable drag-and-drop identity; it is never
// serialized and never reused.
type Draft struct {
	ID          uint
	Name        string
	Coins       int
	PublishedAt string
	Questions   []QuestionDraft
}

type QuestionDraft struct {
	Title   string
	Picture string
	Coins   int
	Type    models.QuestionType
	Options []OptionDraft
}

type OptionDraft struct {
	ClientID string
	Name     string
	Picture  string
	Order    int
	Correct  bool
}

func newClientID() string {
	return uuid.NewString()
}

func emptyQuestion() QuestionDraft {
	return QuestionDraft{
		Type: models.QuestionChoice,
		Options: []OptionDraft{
			{ClientID: newClientID(), Order: 1},
			{ClientID: newClientID(), Order: 2},
		},
	}
}

// NewDraft starts the create form: one empty single-choice question with
// two empty options.
func NewDraft() *Draft {
	return &Draft{Questions: []QuestionDraft{emptyQuestion()}}
}

// DraftFromQuiz maps a stored quiz into the edit form, assigning every
// option a fresh client identifier.
func DraftFromQuiz(quiz *models.Quiz) *Draft {
	d := &Draft{
		ID:          quiz.ID,
		Name:        quiz.Name,
		Coins:       quiz.Coins,
		PublishedAt: quiz.PublishedAt.Format("2006-01-02"),
	}
	for _, q := range quiz.Questions {
		correct := map[int]bool{}
		if q.Type == models.QuestionChoice || q.Type == models.QuestionMultiple {
			if orders, ok := q.CorrectAnswers.Orders(); ok {
				for _, o := range orders {
					correct[o] = true
				}
			}
		}
		qd := QuestionDraft{
			Title:   q.Title,
			Picture: q.Picture,
			Coins:   q.Coins,
			Type:    q.Type,
		}
		for _, opt := range q.Options {
			qd.Options = append(qd.Options, OptionDraft{
				ClientID: newClientID(),
				Name:     opt.Name,
				Picture:  opt.Picture,
				Order:    opt.Order,
				Correct:  correct[opt.Order],
			})
		}
		renumber(qd.Options)
		d.Questions = append(d.Questions, qd)
	}
	if len(d.Questions) == 0 {
		d.Questions = []QuestionDraft{emptyQuestion()}
	}
	return d
}

// AddQuestion appends a fresh empty single-choice question.
func (d *Draft) AddQuestion() {
	d.Questions = append(d.Questions, emptyQuestion())
}

// RemoveQuestion drops the question at index; later questions shift down.
func (d *Draft) RemoveQuestion(index int) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	d.Questions = append(d.Questions[:index], d.Questions[index+1:]...)
}

// AddOption appends an empty option with order = len + 1.
func (d *Draft) AddOption(question int) {
	if question < 0 || question >= len(d.Questions) {
		return
	}
	q := &d.Questions[question]
	q.Options = append(q.Options, OptionDraft{
		ClientID: newClientID(),
		Order:    len(q.Options) + 1,
	})
}

// RemoveOption drops one option and renumbers the rest to a contiguous
// 1..N immediately.
func (d *Draft) RemoveOption(question, index int) {
	if question < 0 || question >= len(d.Questions) {
		return
	}
	q := &d.Questions[question]
	if index < 0 || index >= len(q.Options) {
		return
	}
	q.Options = append(q.Options[:index], q.Options[index+1:]...)
	renumber(q.Options)
}

// MoveOption performs the drop of a drag: a stable move of the option from
// one position to another within the same question, then renumbering.
func (d *Draft) MoveOption(question, from, to int) {
	if question < 0 || question >= len(d.Questions) {
		return
	}
	q := &d.Questions[question]
	if from < 0 || from >= len(q.Options) || to < 0 || to >= len(q.Options) || from == to {
		return
	}
	moved := q.Options[from]
	rest := append(q.Options[:from:from], q.Options[from+1:]...)
	q.Options = append(rest[:to:to], append([]OptionDraft{moved}, rest[to:]...)...)
	renumber(q.Options)
}

// SetOptionCorrect toggles the correct flag; only choice-type questions
// render the toggle, so other types never call this.
func (d *Draft) SetOptionCorrect(question, index int, correct bool) {
	if question < 0 || question >= len(d.Questions) {
		return
	}
	q := &d.Questions[question]
	if index < 0 || index >= len(q.Options) {
		return
	}
	q.Options[index].Correct = correct
}

func renumber(options []OptionDraft) {
	for i := range options {
		options[i].Order = i + 1
	}
}

// Serialize builds the submission payload. Correct answers follow the
// question type: for choice questions they are the orders of checked
// options; for Reorder and Written the natural option order 1..N is the
// ground truth. Client identifiers are not part of the payload.
func (d *Draft) Serialize() models.QuizPayload {
	payload := models.QuizPayload{
		Name:        d.Name,
		Coins:       d.Coins,
		PublishedAt: d.PublishedAt,
		Questions:   make([]models.QuestionPayload, 0, len(d.Questions)),
	}
	for _, q := range d.Questions {
		qp := models.QuestionPayload{
			Title:          q.Title,
			Picture:        q.Picture,
			Coins:          q.Coins,
			Type:           q.Type,
			CorrectAnswers: []int{},
			Options:        make([]models.OptionPayload, 0, len(q.Options)),
		}
		for i, opt := range q.Options {
			qp.Options = append(qp.Options, models.OptionPayload{
				Name:    opt.Name,
				Picture: opt.Picture,
				Order:   i + 1,
			})
			switch q.Type {
			case models.QuestionChoice, models.QuestionMultiple:
				if opt.Correct {
					qp.CorrectAnswers = append(qp.CorrectAnswers, i+1)
				}
			default:
				qp.CorrectAnswers = append(qp.CorrectAnswers, i+1)
			}
		}
		payload.Questions = append(payload.Questions, qp)
	}
	return payload
}
