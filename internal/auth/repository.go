package auth

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

func (r *Repository) GetAdminByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Preload("SchoolYear").Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Preload("SchoolYear").First(&admin, id).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) ListAdmins(page, size int, search string) ([]models.Admin, int64, error) {
	var admins []models.Admin
	var total int64

	query := r.db.Model(&models.Admin{})
	if search != "" {
		query = query.Where("username ILIKE ?", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("SchoolYear").
		Scopes(pagination.Scope(page, size)).
		Order("username asc").
		Find(&admins).Error
	return admins, total, err
}

func (r *Repository) CreateAdmin(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

func (r *Repository) UpdateAdmin(admin *models.Admin) error {
	return r.db.Save(admin).Error
}

func (r *Repository) DeleteAdmin(id uint) error {
	return r.db.Delete(&models.Admin{}, id).Error
}

func (r *Repository) ListSchoolYears() ([]models.SchoolYear, error) {
	var years []models.SchoolYear
	err := r.db.Order("name asc").Find(&years).Error
	return years, err
}

func (r *Repository) GetSchoolYear(id uint) (*models.SchoolYear, error) {
	var year models.SchoolYear
	if err := r.db.First(&year, id).Error; err != nil {
		return nil, err
	}
	return &year, nil
}
