package quiz

import (
	"errors"

	"gorm.io/gorm"

	"cup-admin/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.Order("published_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *Repository) GetBySlug(slug string, withResponses bool) (*models.Quiz, error) {
	var quiz models.Quiz
	query := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		})
	if withResponses {
		query = query.
			Preload("Responses", func(db *gorm.DB) *gorm.DB {
				return db.Order("submitted_at desc")
			}).
			Preload("Responses.Answers")
	}
	if err := query.Where("slug = ?", slug).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetByID(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Quiz{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(quiz *models.Quiz) error {
	return r.db.Create(quiz).Error
}

// Replace swaps a quiz's question set wholesale. Submitted responses keep
// referencing the quiz; their answers keep their stored question ids even
// when those questions are gone.
func (r *Repository) Replace(quiz *models.Quiz, questions []models.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var old []models.Question
		if err := tx.Where("quiz_id = ?", quiz.ID).Find(&old).Error; err != nil {
			return err
		}
		for _, q := range old {
			if err := tx.Where("question_id = ?", q.ID).Delete(&models.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].QuizID = quiz.ID
			for j := range questions[i].Options {
				questions[i].Options[j].ID = 0
			}
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(quiz).Updates(map[string]interface{}{
			"name":         quiz.Name,
			"coins":        quiz.Coins,
			"published_at": quiz.PublishedAt,
		}).Error
	})
}

func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var questions []models.Question
		if err := tx.Where("quiz_id = ?", id).Find(&questions).Error; err != nil {
			return err
		}
		for _, q := range questions {
			if err := tx.Where("question_id = ?", q.ID).Delete(&models.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, id).Error
	})
}

func (r *Repository) GetAnswer(id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *Repository) GetQuestion(id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *Repository) GetResponse(id uint) (*models.Response, error) {
	var response models.Response
	if err := r.db.Preload("Answers").First(&response, id).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *Repository) SaveAnswer(answer *models.Answer) error {
	return r.db.Save(answer).Error
}

func (r *Repository) AddCoinsByUsername(username string, coins int) error {
	result := r.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("coins", gorm.Expr("coins + ?", coins))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}
