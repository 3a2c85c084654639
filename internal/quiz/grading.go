package quiz

import (
	"fmt"
	"strings"

	"cup-admin/internal/models"
)

// OptionRow is one option line in a graded choice question: what the
// respondent picked against what was correct.
type OptionRow struct {
	Name     string `json:"name"`
	Order    int    `json:"order"`
	Selected bool   `json:"selected"`
	Correct  bool   `json:"correct"`
}

// WrittenRow is a graded free-text answer with the accepted texts shown
// as hints next to it.
type WrittenRow struct {
	Text    string   `json:"text"`
	Hints   []string `json:"hints"`
	Correct bool     `json:"correct"`
}

// ReorderRow pairs the submitted sequence with the canonical one,
// position by position.
type ReorderRow struct {
	Submitted []string `json:"submitted"`
	Canonical []string `json:"canonical"`
	Correct   bool     `json:"correct"`
}

func optionByOrder(q *models.Question, order int) (models.Option, bool) {
	for _, opt := range q.Options {
		if opt.Order == order {
			return opt, true
		}
	}
	return models.Option{}, false
}

// unknownOption labels an order that no longer maps to a stored option,
// which happens after a quiz edit replaced the question set.
func unknownOption(order int) string {
	return fmt.Sprintf("Unknown Option (Order: %d)", order)
}

func optionName(q *models.Question, order int) string {
	if opt, ok := optionByOrder(q, order); ok {
		return opt.Name
	}
	return unknownOption(order)
}

// ChoiceView renders a choice answer as one row per option, marking the
// respondent's selections and the correct set independently.
func ChoiceView(q *models.Question, answer models.JSONValue) []OptionRow {
	selected := map[int]bool{}
	if orders, ok := answer.Orders(); ok {
		for _, o := range orders {
			selected[o] = true
		}
	}
	correct := map[int]bool{}
	if orders, ok := q.CorrectAnswers.Orders(); ok {
		for _, o := range orders {
			correct[o] = true
		}
	}
	rows := make([]OptionRow, 0, len(q.Options))
	for _, opt := range q.Options {
		rows = append(rows, OptionRow{
			Name:     opt.Name,
			Order:    opt.Order,
			Selected: selected[opt.Order],
			Correct:  correct[opt.Order],
		})
	}
	return rows
}

// WrittenView renders a free-text answer with every option name listed as
// an accepted hint.
func WrittenView(q *models.Question, answer models.JSONValue, isCorrect bool) WrittenRow {
	text, _ := answer.Text()
	hints := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		hints = append(hints, opt.Name)
	}
	return WrittenRow{Text: text, Hints: hints, Correct: isCorrect}
}

// ReorderView renders a sequence answer side by side with the canonical
// order. Orders that no longer resolve to an option get a placeholder
// label instead of being dropped.
func ReorderView(q *models.Question, answer models.JSONValue, isCorrect bool) ReorderRow {
	row := ReorderRow{Correct: isCorrect}
	if orders, ok := answer.Orders(); ok {
		for _, o := range orders {
			row.Submitted = append(row.Submitted, optionName(q, o))
		}
	}
	if orders, ok := q.CorrectAnswers.Orders(); ok {
		for _, o := range orders {
			row.Canonical = append(row.Canonical, optionName(q, o))
		}
	}
	return row
}

// Grade decides whether an answer value matches a question's correct
// answers. Choice compares the single order, multiple choice compares the
// sets, reorder compares the full sequence, and written matches the text
// against any option name case-insensitively.
func Grade(q *models.Question, answer models.JSONValue) bool {
	switch q.Type {
	case models.QuestionChoice:
		got, ok := answer.Orders()
		if !ok || len(got) != 1 {
			return false
		}
		want, ok := q.CorrectAnswers.Orders()
		if !ok || len(want) != 1 {
			return false
		}
		return got[0] == want[0]
	case models.QuestionMultiple:
		got, ok := answer.Orders()
		if !ok {
			return false
		}
		want, ok := q.CorrectAnswers.Orders()
		if !ok {
			return false
		}
		// Set comparison; duplicate submitted orders collapse first.
		gotSet := map[int]bool{}
		for _, o := range got {
			gotSet[o] = true
		}
		wantSet := map[int]bool{}
		for _, o := range want {
			wantSet[o] = true
		}
		if len(gotSet) != len(wantSet) {
			return false
		}
		for o := range gotSet {
			if !wantSet[o] {
				return false
			}
		}
		return true
	case models.QuestionReorder:
		got, ok := answer.Orders()
		if !ok {
			return false
		}
		want, ok := q.CorrectAnswers.Orders()
		if !ok || len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	case models.QuestionWritten:
		text, ok := answer.Text()
		if !ok {
			return false
		}
		text = strings.TrimSpace(strings.ToLower(text))
		for _, opt := range q.Options {
			if strings.TrimSpace(strings.ToLower(opt.Name)) == text {
				return true
			}
		}
		return false
	}
	return false
}
