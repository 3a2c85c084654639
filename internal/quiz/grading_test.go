package quiz

import (
	"reflect"
	"testing"

	"cup-admin/internal/models"
)

func colorQuestion(typ models.QuestionType, correct string) *models.Question {
	return &models.Question{
		Type:           typ,
		CorrectAnswers: models.JSONValue(correct),
		Options: []models.Option{
			{Name: "Red", Order: 1},
			{Name: "Blue", Order: 2},
			{Name: "Green", Order: 3},
		},
	}
}

func TestChoiceViewMarksSelectionAndCorrectness(t *testing.T) {
	q := colorQuestion(models.QuestionChoice, `[2]`)
	rows := ChoiceView(q, models.JSONValue(`2`))

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Selected || rows[0].Correct {
		t.Errorf("Red must be plain, got %+v", rows[0])
	}
	if !rows[1].Selected || !rows[1].Correct {
		t.Errorf("Blue must be both selected and correct, got %+v", rows[1])
	}
}

func TestChoiceViewWrongPick(t *testing.T) {
	q := colorQuestion(models.QuestionChoice, `[2]`)
	rows := ChoiceView(q, models.JSONValue(`1`))

	if !rows[0].Selected || rows[0].Correct {
		t.Errorf("Red must be selected but not correct, got %+v", rows[0])
	}
	if rows[1].Selected || !rows[1].Correct {
		t.Errorf("Blue must be correct but not selected, got %+v", rows[1])
	}
}

func TestGradeByType(t *testing.T) {
	tests := []struct {
		name    string
		typ     models.QuestionType
		correct string
		answer  string
		want    bool
	}{
		{"choice match", models.QuestionChoice, `[2]`, `2`, true},
		{"choice miss", models.QuestionChoice, `[2]`, `1`, false},
		{"multiple same set any order", models.QuestionMultiple, `[1,3]`, `[3,1]`, true},
		{"multiple missing one", models.QuestionMultiple, `[1,3]`, `[1]`, false},
		{"multiple extra one", models.QuestionMultiple, `[1]`, `[1,3]`, false},
		{"multiple duplicates do not pad", models.QuestionMultiple, `[1,2]`, `[1,1]`, false},
		{"multiple duplicates of full set", models.QuestionMultiple, `[1,2]`, `[2,1,1]`, true},
		{"reorder exact sequence", models.QuestionReorder, `[1,2,3]`, `[1,2,3]`, true},
		{"reorder swapped", models.QuestionReorder, `[1,2,3]`, `[2,1,3]`, false},
		{"written case insensitive", models.QuestionWritten, `[1,2,3]`, `"  BLUE "`, true},
		{"written no match", models.QuestionWritten, `[1,2,3]`, `"purple"`, false},
		{"written non-string", models.QuestionWritten, `[1,2,3]`, `2`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := colorQuestion(tt.typ, tt.correct)
			if got := Grade(q, models.JSONValue(tt.answer)); got != tt.want {
				t.Errorf("Grade() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReorderViewFallsBackForUnknownOrders(t *testing.T) {
	q := colorQuestion(models.QuestionReorder, `[1,2,3]`)
	row := ReorderView(q, models.JSONValue(`[3,7,1]`), false)

	want := []string{"Green", "Unknown Option (Order: 7)", "Red"}
	if !reflect.DeepEqual(row.Submitted, want) {
		t.Errorf("unexpected submitted sequence: %v", row.Submitted)
	}
	if !reflect.DeepEqual(row.Canonical, []string{"Red", "Blue", "Green"}) {
		t.Errorf("unexpected canonical sequence: %v", row.Canonical)
	}
}

func TestWrittenViewListsOptionNamesAsHints(t *testing.T) {
	q := colorQuestion(models.QuestionWritten, `[1,2,3]`)
	row := WrittenView(q, models.JSONValue(`"blue"`), true)

	if row.Text != "blue" {
		t.Errorf("unexpected text %q", row.Text)
	}
	if !reflect.DeepEqual(row.Hints, []string{"Red", "Blue", "Green"}) {
		t.Errorf("unexpected hints: %v", row.Hints)
	}
	if !row.Correct {
		t.Error("expected row marked correct")
	}
}
