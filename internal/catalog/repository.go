package catalog

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

func (r *Repository) ListIcons(page, size int, search string) ([]models.Icon, int64, error) {
	var icons []models.Icon
	var total int64
	query := r.db.Model(&models.Icon{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(pagination.Scope(page, size)).Order("name asc").Find(&icons).Error
	return icons, total, err
}

func (r *Repository) GetIcon(id uint) (*models.Icon, error) {
	var icon models.Icon
	if err := r.db.First(&icon, id).Error; err != nil {
		return nil, err
	}
	return &icon, nil
}

func (r *Repository) CreateIcon(icon *models.Icon) error {
	return r.db.Create(icon).Error
}

func (r *Repository) UpdateIcon(icon *models.Icon) error {
	return r.db.Save(icon).Error
}

func (r *Repository) DeleteIcon(id uint) error {
	return r.db.Delete(&models.Icon{}, id).Error
}

func (r *Repository) ListPlayers(page, size int, search string) ([]models.Player, int64, error) {
	var players []models.Player
	var total int64
	query := r.db.Model(&models.Player{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(pagination.Scope(page, size)).Order("rating desc").Find(&players).Error
	return players, total, err
}

func (r *Repository) GetPlayer(id uint) (*models.Player, error) {
	var player models.Player
	if err := r.db.First(&player, id).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *Repository) CreatePlayer(player *models.Player) error {
	return r.db.Create(player).Error
}

func (r *Repository) UpdatePlayer(player *models.Player) error {
	return r.db.Save(player).Error
}

func (r *Repository) DeletePlayer(id uint) error {
	return r.db.Delete(&models.Player{}, id).Error
}

func (r *Repository) ListPrices() ([]models.Price, error) {
	var prices []models.Price
	err := r.db.Order("name asc").Find(&prices).Error
	return prices, err
}

func (r *Repository) GetPrice(id uint) (*models.Price, error) {
	var price models.Price
	if err := r.db.First(&price, id).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *Repository) CreatePrice(price *models.Price) error {
	return r.db.Create(price).Error
}

func (r *Repository) UpdatePrice(price *models.Price) error {
	return r.db.Save(price).Error
}

func (r *Repository) DeletePrice(id uint) error {
	return r.db.Delete(&models.Price{}, id).Error
}

func (r *Repository) ListControls() ([]models.Control, error) {
	var controls []models.Control
	err := r.db.Order("name asc").Find(&controls).Error
	return controls, err
}

func (r *Repository) SetControlVisible(name string, visible bool) (*models.Control, error) {
	var control models.Control
	if err := r.db.Where("name = ?", name).First(&control).Error; err != nil {
		return nil, err
	}
	control.Visible = visible
	if err := r.db.Save(&control).Error; err != nil {
		return nil, err
	}
	return &control, nil
}
