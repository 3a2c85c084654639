package cli

import (
	"os"
	"path/filepath"
	"testing"

	"cup-admin/internal/models"
)

const sampleDefinition = `
name: Saints of Egypt
coins: 50
published_at: "2026-09-07"
questions:
  - title: Who founded monasticism?
    type: Choice
    coins: 10
    options:
      - name: St. Anthony
        correct: true
      - name: St. Mark
  - title: Pick the desert fathers
    type: MultipleCorrectChoices
    coins: 15
    options:
      - name: St. Anthony
        correct: true
      - name: St. Paul the Hermit
        correct: true
      - name: St. Augustine
  - title: Order the patriarchs
    type: Reorder
    options:
      - name: St. Mark
      - name: St. Anianus
  - title: Name the current pope
    type: Written
    options:
      - name: Tawadros
      - name: Pope Tawadros II
`

func writeDefinition(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildDraftFromDefinition(t *testing.T) {
	def, err := loadDefinition(writeDefinition(t, sampleDefinition))
	if err != nil {
		t.Fatal(err)
	}
	draft, err := buildDraft(def)
	if err != nil {
		t.Fatal(err)
	}

	if draft.Name != "Saints of Egypt" || draft.Coins != 50 {
		t.Fatalf("draft header = %q/%d", draft.Name, draft.Coins)
	}
	if len(draft.Questions) != 4 {
		t.Fatalf("got %d questions, want 4 (seed question must be dropped)", len(draft.Questions))
	}

	payload := draft.Serialize()
	choice := payload.Questions[0]
	if choice.Type != models.QuestionChoice {
		t.Fatalf("first question type = %s", choice.Type)
	}
	if len(choice.CorrectAnswers) != 1 || choice.CorrectAnswers[0] != 1 {
		t.Fatalf("choice correct answers = %v, want [1]", choice.CorrectAnswers)
	}

	multiple := payload.Questions[1]
	if len(multiple.CorrectAnswers) != 2 || multiple.CorrectAnswers[0] != 1 || multiple.CorrectAnswers[1] != 2 {
		t.Fatalf("multiple correct answers = %v, want [1 2]", multiple.CorrectAnswers)
	}

	// Reorder and Written ground truth is the natural option order.
	for _, i := range []int{2, 3} {
		q := payload.Questions[i]
		if len(q.CorrectAnswers) != len(q.Options) {
			t.Fatalf("%s correct answers = %v", q.Type, q.CorrectAnswers)
		}
		for j, o := range q.CorrectAnswers {
			if o != j+1 {
				t.Fatalf("%s correct answers = %v, want 1..N", q.Type, q.CorrectAnswers)
			}
		}
		for j, opt := range q.Options {
			if opt.Order != j+1 {
				t.Fatalf("%s option orders not contiguous: %+v", q.Type, q.Options)
			}
		}
	}
}

func TestBuildDraftRejectsUnknownType(t *testing.T) {
	def := &quizDefinition{
		Name: "Broken",
		Questions: []questionDefinition{
			{Title: "?", Type: "TrueFalse"},
		},
	}
	if _, err := buildDraft(def); err == nil {
		t.Fatal("expected an unknown type error")
	}
}

func TestLoadDefinitionRequiresNameAndQuestions(t *testing.T) {
	if _, err := loadDefinition(writeDefinition(t, "coins: 5\n")); err == nil {
		t.Fatal("expected an error for a nameless definition")
	}
	if _, err := loadDefinition(writeDefinition(t, "name: Empty\n")); err == nil {
		t.Fatal("expected an error for a definition without questions")
	}
}

func TestParseMove(t *testing.T) {
	q, from, to, err := parseMove("2:3:1")
	if err != nil {
		t.Fatal(err)
	}
	if q != 1 || from != 2 || to != 0 {
		t.Fatalf("parseMove = %d,%d,%d, want zero-based 1,2,0", q, from, to)
	}
	for _, bad := range []string{"", "1:2", "1:2:3:4", "0:1:2", "a:b:c"} {
		if _, _, _, err := parseMove(bad); err == nil {
			t.Fatalf("parseMove(%q) accepted", bad)
		}
	}
}
