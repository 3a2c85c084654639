package attendance

import (
	"errors"

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

func (r *Repository) List(page, size int, search string) ([]models.Attendance, int64, error) {
	var records []models.Attendance
	var total int64

	query := r.db.Model(&models.Attendance{})
	if search != "" {
		query = query.Where(
			"description ILIKE ? OR user_id IN (?)",
			"%"+search+"%",
			r.db.Model(&models.User{}).Select("id").Where("username ILIKE ?", "%"+search+"%"),
		)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(pagination.Scope(page, size)).
		Order("date desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	if err := r.fillUsernames(records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// fillUsernames resolves the display username for each record in one
// query.
func (r *Repository) fillUsernames(records []models.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.UserID)
	}
	var users []models.User
	if err := r.db.Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return err
	}
	byID := make(map[uint]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Username
	}
	for i := range records {
		records[i].Username = byID[records[i].UserID]
	}
	return nil
}

func (r *Repository) Get(id uint) (*models.Attendance, error) {
	var record models.Attendance
	if err := r.db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByUserAndEvent returns nil without error when no record exists.
func (r *Repository) FindByUserAndEvent(userID uint, description, date string) (*models.Attendance, error) {
	var record models.Attendance
	err := r.db.Where("user_id = ? AND description = ? AND date = ?", userID, description, date).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) Create(record *models.Attendance) error {
	return r.db.Create(record).Error
}

func (r *Repository) Update(record *models.Attendance) error {
	return r.db.Save(record).Error
}

func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&models.Attendance{}, id).Error
}

func (r *Repository) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) AddCoins(userID uint, coins int) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("coins", gorm.Expr("coins + ?", coins)).Error
}

// PriceFor looks up the coin value configured for a liturgy name; an
// unconfigured liturgy is worth nothing rather than an error.
func (r *Repository) PriceFor(name string) (int, error) {
	var price models.Price
	err := r.db.Where("name = ?", name).First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return price.Coins, nil
}
