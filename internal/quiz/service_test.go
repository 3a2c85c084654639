package quiz

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"cup-admin/internal/models"
)

type memStore struct {
	quizzes   map[uint]*models.Quiz
	questions map[uint]*models.Question
	responses map[uint]*models.Response
	answers   map[uint]*models.Answer
	coins     map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		quizzes:   map[uint]*models.Quiz{},
		questions: map[uint]*models.Question{},
		responses: map[uint]*models.Response{},
		answers:   map[uint]*models.Answer{},
		coins:     map[string]int{},
	}
}

func (m *memStore) List() ([]models.Quiz, error) {
	var out []models.Quiz
	for _, q := range m.quizzes {
		out = append(out, *q)
	}
	return out, nil
}

func (m *memStore) GetBySlug(slug string, withResponses bool) (*models.Quiz, error) {
	for _, q := range m.quizzes {
		if q.Slug == slug {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) GetByID(id uint) (*models.Quiz, error) {
	if q, ok := m.quizzes[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) SlugExists(slug string) (bool, error) {
	_, err := m.GetBySlug(slug, false)
	return err == nil, nil
}

func (m *memStore) Create(quiz *models.Quiz) error {
	quiz.ID = uint(len(m.quizzes) + 1)
	m.quizzes[quiz.ID] = quiz
	return nil
}

func (m *memStore) Replace(quiz *models.Quiz, questions []models.Question) error {
	quiz.Questions = questions
	return nil
}

func (m *memStore) Delete(id uint) error {
	delete(m.quizzes, id)
	return nil
}

func (m *memStore) GetAnswer(id uint) (*models.Answer, error) {
	if a, ok := m.answers[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) GetQuestion(id uint) (*models.Question, error) {
	if q, ok := m.questions[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) GetResponse(id uint) (*models.Response, error) {
	if r, ok := m.responses[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) SaveAnswer(answer *models.Answer) error {
	m.answers[answer.ID] = answer
	return nil
}

func (m *memStore) AddCoinsByUsername(username string, coins int) error {
	if _, ok := m.coins[username]; !ok {
		return errors.New("user not found")
	}
	m.coins[username] += coins
	return nil
}

func seedWrittenAnswer(m *memStore) {
	m.quizzes[1] = &models.Quiz{ID: 1, Name: "Saints", Slug: "saints"}
	m.questions[10] = &models.Question{
		ID: 10, QuizID: 1, Type: models.QuestionWritten, Coins: 5,
		Options: []models.Option{{Name: "Mina", Order: 1}},
	}
	m.questions[11] = &models.Question{
		ID: 11, QuizID: 1, Type: models.QuestionChoice, Coins: 5,
	}
	m.responses[20] = &models.Response{ID: 20, QuizID: 1, Username: "abanoub"}
	m.answers[30] = &models.Answer{
		ID: 30, ResponseID: 20, QuestionID: 10,
		Value: models.JSONValue(`"saint mina"`),
	}
	m.answers[31] = &models.Answer{
		ID: 31, ResponseID: 20, QuestionID: 11,
		Value: models.JSONValue(`1`),
	}
	m.coins["abanoub"] = 100
}

func TestMarkAnswerCorrectCreditsRespondent(t *testing.T) {
	store := newMemStore()
	seedWrittenAnswer(store)
	svc := NewService(store, nil, nil)

	answer, err := svc.MarkAnswerCorrect(30)
	if err != nil {
		t.Fatalf("MarkAnswerCorrect failed: %v", err)
	}
	if !answer.IsCorrect || answer.Coins != 5 {
		t.Errorf("expected correct answer worth 5 coins, got %+v", answer)
	}
	if store.coins["abanoub"] != 105 {
		t.Errorf("expected balance 105, got %d", store.coins["abanoub"])
	}
}

func TestMarkAnswerCorrectRejectsNonWritten(t *testing.T) {
	store := newMemStore()
	seedWrittenAnswer(store)
	svc := NewService(store, nil, nil)

	if _, err := svc.MarkAnswerCorrect(31); !errors.Is(err, ErrNotWritten) {
		t.Fatalf("expected ErrNotWritten, got %v", err)
	}
	if store.coins["abanoub"] != 100 {
		t.Errorf("balance must be untouched, got %d", store.coins["abanoub"])
	}
}

func TestMarkAnswerCorrectIsNotRepeatable(t *testing.T) {
	store := newMemStore()
	seedWrittenAnswer(store)
	svc := NewService(store, nil, nil)

	if _, err := svc.MarkAnswerCorrect(30); err != nil {
		t.Fatalf("first correction failed: %v", err)
	}
	if _, err := svc.MarkAnswerCorrect(30); !errors.Is(err, ErrAlreadyCorrect) {
		t.Fatalf("expected ErrAlreadyCorrect, got %v", err)
	}
	if store.coins["abanoub"] != 105 {
		t.Errorf("coins must only be credited once, got %d", store.coins["abanoub"])
	}
}

func TestBuildQuestionsPinsReorderAnswers(t *testing.T) {
	questions := buildQuestions([]models.QuestionPayload{
		{
			Title: "Order the liturgy",
			Type:  models.QuestionReorder,
			// A stale client sent an out of range list; the natural order wins.
			CorrectAnswers: []int{9, 4},
			Options: []models.OptionPayload{
				{Name: "Matins", Order: 7},
				{Name: "Offering", Order: 3},
			},
		},
	})

	q := questions[0]
	if string(q.CorrectAnswers) != "[1,2]" {
		t.Errorf("expected pinned answers [1,2], got %s", q.CorrectAnswers)
	}
	if q.Options[0].Order != 1 || q.Options[1].Order != 2 {
		t.Errorf("option orders must be renumbered, got %d,%d", q.Options[0].Order, q.Options[1].Order)
	}
	if q.Position != 1 {
		t.Errorf("expected position 1, got %d", q.Position)
	}
}

func TestBuildQuestionsFiltersChoiceAnswers(t *testing.T) {
	questions := buildQuestions([]models.QuestionPayload{
		{
			Title:          "Pick blue",
			Type:           models.QuestionChoice,
			CorrectAnswers: []int{2, 9},
			Options: []models.OptionPayload{
				{Name: "Red", Order: 1},
				{Name: "Blue", Order: 2},
			},
		},
	})

	if got := string(questions[0].CorrectAnswers); got != "[2]" {
		t.Errorf("expected out of range orders dropped, got %s", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Holy Week Quiz", "holy-week-quiz"},
		{"  St. Mina!  ", "st-mina"},
		{"!!!", "quiz"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueSlugAppendsSuffixOnCollision(t *testing.T) {
	store := newMemStore()
	store.quizzes[1] = &models.Quiz{ID: 1, Slug: "saints"}
	svc := NewService(store, nil, nil)

	slug, err := svc.uniqueSlug("Saints")
	if err != nil {
		t.Fatalf("uniqueSlug failed: %v", err)
	}
	if slug == "saints" || !strings.HasPrefix(slug, "saints-") {
		t.Errorf("expected suffixed slug, got %q", slug)
	}
}
