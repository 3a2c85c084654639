package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionChoice   QuestionType = "Choice"
	QuestionMultiple QuestionType = "MultipleCorrectChoices"
	QuestionReorder  QuestionType = "Reorder"
	QuestionWritten  QuestionType = "Written"
)

// JSONValue stores an answer value whose shape depends on the question type:
// an option order, a list of option orders, or free text. It round-trips as
// raw JSON both on the wire and in the database.
type JSONValue json.RawMessage

func (v JSONValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

func (v *JSONValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[0:0], data...)
	return nil
}

func (v JSONValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return string(v), nil
}

func (v *JSONValue) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		*v = append((*v)[0:0], s...)
		return nil
	case string:
		*v = JSONValue(s)
		return nil
	}
	return errors.New("unsupported source for JSONValue")
}

// Orders decodes the value as a list of option orders. A single number is
// treated as a one-element list so Choice answers resolve the same way.
func (v JSONValue) Orders() ([]int, bool) {
	var list []int
	if err := json.Unmarshal(v, &list); err == nil {
		return list, true
	}
	var single int
	if err := json.Unmarshal(v, &single); err == nil {
		return []int{single}, true
	}
	return nil, false
}

// Text decodes the value as free text.
func (v JSONValue) Text() (string, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

type Quiz struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Name        string         `json:"name" gorm:"not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex"`
	Coins       int            `json:"coins"`
	PublishedAt time.Time      `json:"publishedAt"`
	Questions   []Question     `json:"questions" gorm:"foreignKey:QuizID"`
	Responses   []Response     `json:"responses,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time      `json:"-"`
	UpdatedAt      time.Time      `json:"-"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
	QuizID         uint           `json:"-" gorm:"index"`
	Title          string         `json:"title" gorm:"not null"`
	Picture        string         `json:"picture,omitempty"`
	Type           QuestionType   `json:"type" gorm:"not null"`
	Coins          int            `json:"coins"`
	Position       int            `json:"-"`
	CorrectAnswers JSONValue      `json:"answers" gorm:"type:text"`
	Options        []Option       `json:"options" gorm:"foreignKey:QuestionID"`
}

// Option belongs to one question. Order is both display order and, for
// choice questions, the option's identity for grading. Within a question
// orders are a contiguous 1..N permutation.
type Option struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"-"`
	UpdatedAt  time.Time      `json:"-"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	QuestionID uint           `json:"-" gorm:"index"`
	Name       string         `json:"name" gorm:"not null"`
	Picture    string         `json:"picture,omitempty"`
	Order      int            `json:"order" gorm:"column:position"`
}

// Response is one respondent's graded submission to a quiz.
type Response struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	QuizID      uint           `json:"-" gorm:"index"`
	Username    string         `json:"username"`
	Coins       int            `json:"coins"`
	SubmittedAt time.Time      `json:"submittedAt"`
	Answers     []Answer       `json:"-" gorm:"foreignKey:ResponseID"`
}

type Answer struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	ResponseID uint           `json:"-" gorm:"index"`
	QuestionID uint           `json:"-" gorm:"index"`
	Value      JSONValue      `json:"answer" gorm:"type:text"`
	IsCorrect  bool           `json:"isCorrect"`
	Coins      int            `json:"coins"`
}
