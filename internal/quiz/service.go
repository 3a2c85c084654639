package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"cup-admin/internal/models"
	"cup-admin/pkg/logger"
)

var (
	ErrNotWritten     = errors.New("only written answers can be corrected manually")
	ErrAlreadyCorrect = errors.New("answer is already marked correct")
)

// Store is the persistence surface the service needs.
type Store interface {
	List() ([]models.Quiz, error)
	GetBySlug(slug string, withResponses bool) (*models.Quiz, error)
	GetByID(id uint) (*models.Quiz, error)
	SlugExists(slug string) (bool, error)
	Create(quiz *models.Quiz) error
	Replace(quiz *models.Quiz, questions []models.Question) error
	Delete(id uint) error
	GetAnswer(id uint) (*models.Answer, error)
	GetQuestion(id uint) (*models.Question, error)
	GetResponse(id uint) (*models.Response, error)
	SaveAnswer(answer *models.Answer) error
	AddCoinsByUsername(username string, coins int) error
}

// Cache keeps published quizzes hot for the player-facing reads.
type Cache interface {
	SetQuiz(quiz *models.Quiz) error
	GetQuiz(slug string) (*models.Quiz, error)
	InvalidateQuiz(slug string) error
}

// Notifier fans resource invalidations out to connected dashboards.
type Notifier interface {
	Invalidate(resource string)
}

type Service struct {
	store    Store
	cache    Cache
	notifier Notifier
}

func NewService(store Store, cache Cache, notifier Notifier) *Service {
	return &Service{store: store, cache: cache, notifier: notifier}
}

func (s *Service) List() ([]models.Quiz, error) {
	return s.store.List()
}

func (s *Service) Get(slug string, withResponses bool) (*models.Quiz, error) {
	if !withResponses && s.cache != nil {
		if quiz, err := s.cache.GetQuiz(slug); err == nil {
			return quiz, nil
		}
	}
	quiz, err := s.store.GetBySlug(slug, withResponses)
	if err != nil {
		return nil, err
	}
	if !withResponses && s.cache != nil {
		if err := s.cache.SetQuiz(quiz); err != nil {
			logger.WithResource("quizzes").WithError(err).Warn("failed to cache quiz")
		}
	}
	return quiz, nil
}

func (s *Service) Create(payload *models.QuizPayload) (*models.Quiz, error) {
	publishedAt, err := parsePublishedAt(payload.PublishedAt)
	if err != nil {
		return nil, err
	}
	slug, err := s.uniqueSlug(payload.Name)
	if err != nil {
		return nil, err
	}
	quiz := &models.Quiz{
		Name:        payload.Name,
		Slug:        slug,
		Coins:       payload.Coins,
		PublishedAt: publishedAt,
		Questions:   buildQuestions(payload.Questions),
	}
	if err := s.store.Create(quiz); err != nil {
		return nil, err
	}
	s.invalidate(quiz.Slug)
	return quiz, nil
}

// Update replaces the quiz's question set wholesale with the submitted
// one. Existing responses stay attached to the quiz.
func (s *Service) Update(id uint, payload *models.QuizPayload) (*models.Quiz, error) {
	quiz, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	publishedAt, err := parsePublishedAt(payload.PublishedAt)
	if err != nil {
		return nil, err
	}
	quiz.Name = payload.Name
	quiz.Coins = payload.Coins
	quiz.PublishedAt = publishedAt
	if err := s.store.Replace(quiz, buildQuestions(payload.Questions)); err != nil {
		return nil, err
	}
	s.invalidate(quiz.Slug)
	return s.store.GetBySlug(quiz.Slug, false)
}

func (s *Service) Delete(id uint) error {
	quiz, err := s.store.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.invalidate(quiz.Slug)
	return nil
}

// MarkAnswerCorrect flips a manually reviewed written answer to correct,
// paying the question's coins out to the respondent.
func (s *Service) MarkAnswerCorrect(answerID uint) (*models.Answer, error) {
	answer, err := s.store.GetAnswer(answerID)
	if err != nil {
		return nil, err
	}
	question, err := s.store.GetQuestion(answer.QuestionID)
	if err != nil {
		return nil, err
	}
	if question.Type != models.QuestionWritten {
		return nil, ErrNotWritten
	}
	if answer.IsCorrect {
		return nil, ErrAlreadyCorrect
	}
	answer.IsCorrect = true
	answer.Coins = question.Coins
	if err := s.store.SaveAnswer(answer); err != nil {
		return nil, err
	}
	response, err := s.store.GetResponse(answer.ResponseID)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddCoinsByUsername(response.Username, question.Coins); err != nil {
		logger.WithResource("quizzes").WithError(err).WithField("username", response.Username).
			Warn("failed to credit corrected answer")
	}
	if quiz, err := s.store.GetByID(question.QuizID); err == nil {
		s.invalidate(quiz.Slug)
	}
	return answer, nil
}

func (s *Service) invalidate(slug string) {
	if s.cache != nil {
		if err := s.cache.InvalidateQuiz(slug); err != nil {
			logger.WithResource("quizzes").WithError(err).Warn("failed to invalidate quiz cache")
		}
	}
	if s.notifier != nil {
		s.notifier.Invalidate("quizzes")
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "quiz"
	}
	return slug
}

const slugSuffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func slugSuffix() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = slugSuffixCharset[rand.Intn(len(slugSuffixCharset))]
	}
	return string(b)
}

func (s *Service) uniqueSlug(name string) (string, error) {
	base := slugify(name)
	slug := base
	for attempt := 0; attempt < 5; attempt++ {
		exists, err := s.store.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = base + "-" + slugSuffix()
	}
	return "", fmt.Errorf("could not generate a unique slug for %q", name)
}

func parsePublishedAt(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid published_at %q", value)
}

// buildQuestions shapes a payload's questions for storage: positions and
// option orders become contiguous again, and correct answers for Reorder
// and Written questions are pinned to the natural option order whatever
// the payload claimed.
func buildQuestions(payloads []models.QuestionPayload) []models.Question {
	questions := make([]models.Question, 0, len(payloads))
	for i, qp := range payloads {
		question := models.Question{
			Title:    qp.Title,
			Picture:  qp.Picture,
			Type:     qp.Type,
			Coins:    qp.Coins,
			Position: i + 1,
		}
		for j, op := range qp.Options {
			question.Options = append(question.Options, models.Option{
				Name:    op.Name,
				Picture: op.Picture,
				Order:   j + 1,
			})
		}
		question.CorrectAnswers = encodeCorrectAnswers(qp, len(question.Options))
		questions = append(questions, question)
	}
	return questions
}

func encodeCorrectAnswers(qp models.QuestionPayload, optionCount int) models.JSONValue {
	var orders []int
	switch qp.Type {
	case models.QuestionChoice, models.QuestionMultiple:
		for _, o := range qp.CorrectAnswers {
			if o >= 1 && o <= optionCount {
				orders = append(orders, o)
			}
		}
	default:
		for i := 1; i <= optionCount; i++ {
			orders = append(orders, i)
		}
	}
	if orders == nil {
		orders = []int{}
	}
	data, _ := json.Marshal(orders)
	return models.JSONValue(data)
}
