package user

import (
	"gorm.io/gorm"

	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(page, size int, search string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{})
	if search != "" {
		query = query.Where("username ILIKE ?", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(pagination.Scope(page, size)).
		Order("username asc").
		Find(&users).Error
	return users, total, err
}

// ListByCoins orders the roster for the leaderboard screen.
func (r *Repository) ListByCoins(page, size int, search string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{})
	if search != "" {
		query = query.Where("username ILIKE ?", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(pagination.Scope(page, size)).
		Order("coins desc, username asc").
		Find(&users).Error
	return users, total, err
}

func (r *Repository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Attendances", func(db *gorm.DB) *gorm.DB {
		return db.Order("date desc")
	}).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *Repository) Delete(username string) error {
	return r.db.Where("username = ?", username).Delete(&models.User{}).Error
}

func (r *Repository) Exists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *Repository) SetLeaderboard(id uint, visible bool) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("leaderboard_boolean", visible).Error
}

func (r *Repository) GetSchoolYearByName(name string) (*models.SchoolYear, error) {
	var year models.SchoolYear
	if err := r.db.Where("name = ?", name).First(&year).Error; err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *Repository) ListSchoolYears() ([]models.SchoolYear, error) {
	var years []models.SchoolYear
	err := r.db.Order("name asc").Find(&years).Error
	return years, err
}
