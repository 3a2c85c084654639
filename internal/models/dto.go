package models

import "time"

// ResponseDTO is the wire shape of a graded submission: answers are keyed
// by question id and the correct count is derived, not stored.
type ResponseDTO struct {
	ID                    uint            `json:"id"`
	Username              string          `json:"username"`
	Coins                 int             `json:"coins"`
	CorrectQuestionsCount int             `json:"correctQuestionsCount"`
	SubmittedAt           time.Time       `json:"submittedAt"`
	Answers               map[uint]Answer `json:"answers"`
}

func (r Response) ToDTO() ResponseDTO {
	answers := make(map[uint]Answer, len(r.Answers))
	correct := 0
	coins := 0
	for _, a := range r.Answers {
		answers[a.QuestionID] = a
		if a.IsCorrect {
			correct++
		}
		coins += a.Coins
	}
	return ResponseDTO{
		ID:                    r.ID,
		Username:              r.Username,
		Coins:                 coins,
		CorrectQuestionsCount: correct,
		SubmittedAt:           r.SubmittedAt,
		Answers:               answers,
	}
}

// QuizDTO includes responses only when the show view asks for them.
type QuizDTO struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Coins       int            `json:"coins"`
	PublishedAt time.Time      `json:"publishedAt"`
	Questions   []Question     `json:"questions"`
	Responses   []ResponseDTO  `json:"responses,omitempty"`
}

func (q Quiz) ToDTO(withResponses bool) QuizDTO {
	dto := QuizDTO{
		ID:          q.ID,
		Name:        q.Name,
		Slug:        q.Slug,
		Coins:       q.Coins,
		PublishedAt: q.PublishedAt,
		Questions:   q.Questions,
	}
	if dto.Questions == nil {
		dto.Questions = []Question{}
	}
	if withResponses {
		dto.Responses = make([]ResponseDTO, 0, len(q.Responses))
		for _, r := range q.Responses {
			dto.Responses = append(dto.Responses, r.ToDTO())
		}
	}
	return dto
}

// QuizPayload is the authoring submission: the full question/option tree
// replaces the stored one wholesale on every save.
type QuizPayload struct {
	Name        string            `json:"name" validate:"required"`
	Coins       int               `json:"coins"`
	PublishedAt string            `json:"published_at"`
	Questions   []QuestionPayload `json:"questions" validate:"dive"`
}

type QuestionPayload struct {
	Title          string          `json:"title" validate:"required"`
	Picture        string          `json:"picture,omitempty"`
	Coins          int             `json:"coins"`
	Type           QuestionType    `json:"type" validate:"required,oneof=Choice MultipleCorrectChoices Reorder Written"`
	CorrectAnswers []int           `json:"correct_answers"`
	Options        []OptionPayload `json:"options" validate:"dive"`
}

type OptionPayload struct {
	Name    string `json:"name" validate:"required"`
	Picture string `json:"picture,omitempty"`
	Order   int    `json:"order"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse mirrors the token plus the user attributes the dashboard
// keeps in local storage.
type LoginResponse struct {
	JWTToken string `json:"jwttoken"`
	Username string `json:"username"`
	UserID   uint   `json:"userId"`
	Role     Role   `json:"role"`
}

type RegisterRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
	SchoolYear string `json:"schoolYear" validate:"required"`
}

type BulkAttendanceRequest struct {
	Date        string `json:"date" validate:"required"`
	LiturgyName string `json:"liturgyName" validate:"required"`
	UserIDs     []uint `json:"userIds" validate:"required,min=1"`
}

// BulkAttendanceResult partitions the batch into records this call
// approved and records that were already approved and skipped.
type BulkAttendanceResult struct {
	ApprovedUsers []string `json:"approvedUsers"`
	FailedUsers   []string `json:"failedUsers"`
}

type BulkUsersRequest struct {
	Users []string `json:"users" validate:"required,min=1,dive,required"`
}

type AdminPayload struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password"`
	Role       Role   `json:"role" validate:"required,oneof=ADMIN OSTAZ"`
	SchoolYear uint   `json:"schoolYear"`
}

type PricePayload struct {
	Name  string `json:"name" validate:"required"`
	Coins int    `json:"coins"`
}

type CoinsRequest struct {
	Coins int `json:"coins" validate:"required,gt=0"`
}

type PasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}
