package catalog

import (
	"mime/multipart"

	"cup-admin/internal/models"
	"cup-admin/internal/storage"
	"cup-admin/pkg/logger"
)

// Cache keeps the controls list hot; every page load reads it.
type Cache interface {
	SetControls(controls []models.Control) error
	GetControls() ([]models.Control, error)
	InvalidateControls() error
}

type Notifier interface {
	Invalidate(resource string)
}

type Service struct {
	repo     *Repository
	images   *storage.ImageStore
	cache    Cache
	notifier Notifier
}

func NewService(repo *Repository, images *storage.ImageStore, cache Cache, notifier Notifier) *Service {
	return &Service{repo: repo, images: images, cache: cache, notifier: notifier}
}

// IconForm carries the multipart fields of the icon create and edit forms.
// Image holds the uploaded file when one was attached; ImageAction is the
// raw image field value, which can be the delete sentinel.
type IconForm struct {
	Name        string
	Price       int
	Available   bool
	Image       multipart.File
	ImageHeader *multipart.FileHeader
	ImageAction string
}

type PlayerForm struct {
	Name        string
	Position    string
	Rating      int
	Price       int
	Available   bool
	Image       multipart.File
	ImageHeader *multipart.FileHeader
	ImageAction string
}

func (s *Service) ListIcons(page, size int, search string) ([]models.Icon, int64, error) {
	return s.repo.ListIcons(page, size, search)
}

func (s *Service) CreateIcon(form IconForm) (*models.Icon, error) {
	icon := &models.Icon{
		Name:      form.Name,
		Price:     form.Price,
		Available: form.Available,
	}
	if form.Image != nil {
		key, url, err := s.images.Save(form.Image, form.ImageHeader)
		if err != nil {
			return nil, err
		}
		icon.ImageKey = key
		icon.ImageURL = url
	}
	if err := s.repo.CreateIcon(icon); err != nil {
		return nil, err
	}
	s.invalidate("icons")
	return icon, nil
}

func (s *Service) UpdateIcon(id uint, form IconForm) (*models.Icon, error) {
	icon, err := s.repo.GetIcon(id)
	if err != nil {
		return nil, err
	}
	icon.Name = form.Name
	icon.Price = form.Price
	icon.Available = form.Available
	if err := s.applyImage(&icon.ImageKey, &icon.ImageURL, form.Image, form.ImageHeader, form.ImageAction); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateIcon(icon); err != nil {
		return nil, err
	}
	s.invalidate("icons")
	return icon, nil
}

func (s *Service) DeleteIcon(id uint) error {
	icon, err := s.repo.GetIcon(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteIcon(id); err != nil {
		return err
	}
	s.removeImage(icon.ImageKey)
	s.invalidate("icons")
	return nil
}

func (s *Service) ListPlayers(page, size int, search string) ([]models.Player, int64, error) {
	return s.repo.ListPlayers(page, size, search)
}

func (s *Service) CreatePlayer(form PlayerForm) (*models.Player, error) {
	player := &models.Player{
		Name:      form.Name,
		Position:  form.Position,
		Rating:    form.Rating,
		Price:     form.Price,
		Available: form.Available,
	}
	if form.Image != nil {
		key, url, err := s.images.Save(form.Image, form.ImageHeader)
		if err != nil {
			return nil, err
		}
		player.ImageKey = key
		player.ImageURL = url
	}
	if err := s.repo.CreatePlayer(player); err != nil {
		return nil, err
	}
	s.invalidate("players")
	return player, nil
}

func (s *Service) UpdatePlayer(id uint, form PlayerForm) (*models.Player, error) {
	player, err := s.repo.GetPlayer(id)
	if err != nil {
		return nil, err
	}
	player.Name = form.Name
	player.Position = form.Position
	player.Rating = form.Rating
	player.Price = form.Price
	player.Available = form.Available
	if err := s.applyImage(&player.ImageKey, &player.ImageURL, form.Image, form.ImageHeader, form.ImageAction); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePlayer(player); err != nil {
		return nil, err
	}
	s.invalidate("players")
	return player, nil
}

func (s *Service) DeletePlayer(id uint) error {
	player, err := s.repo.GetPlayer(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePlayer(id); err != nil {
		return err
	}
	s.removeImage(player.ImageKey)
	s.invalidate("players")
	return nil
}

func (s *Service) ListPrices() ([]models.Price, error) {
	return s.repo.ListPrices()
}

func (s *Service) CreatePrice(payload models.PricePayload) (*models.Price, error) {
	price := &models.Price{Name: payload.Name, Coins: payload.Coins}
	if err := s.repo.CreatePrice(price); err != nil {
		return nil, err
	}
	s.invalidate("prices")
	return price, nil
}

func (s *Service) UpdatePrice(id uint, payload models.PricePayload) (*models.Price, error) {
	price, err := s.repo.GetPrice(id)
	if err != nil {
		return nil, err
	}
	price.Name = payload.Name
	price.Coins = payload.Coins
	if err := s.repo.UpdatePrice(price); err != nil {
		return nil, err
	}
	s.invalidate("prices")
	return price, nil
}

func (s *Service) DeletePrice(id uint) error {
	if err := s.repo.DeletePrice(id); err != nil {
		return err
	}
	s.invalidate("prices")
	return nil
}

func (s *Service) ListControls() ([]models.Control, error) {
	if s.cache != nil {
		if controls, err := s.cache.GetControls(); err == nil {
			return controls, nil
		}
	}
	controls, err := s.repo.ListControls()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetControls(controls); err != nil {
			logger.WithResource("controls").WithError(err).Warn("failed to cache controls")
		}
	}
	return controls, nil
}

func (s *Service) SetControlVisible(name string, visible bool) (*models.Control, error) {
	control, err := s.repo.SetControlVisible(name, visible)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateControls(); err != nil {
			logger.WithResource("controls").WithError(err).Warn("failed to invalidate controls cache")
		}
	}
	if s.notifier != nil {
		s.notifier.Invalidate("controls")
	}
	return control, nil
}

// applyImage handles the three states of an image field on edit: a new
// upload replaces the stored image, the delete sentinel removes it, and
// anything else keeps it.
func (s *Service) applyImage(key, url *string, file multipart.File, header *multipart.FileHeader, action string) error {
	switch {
	case file != nil:
		newKey, newURL, err := s.images.Save(file, header)
		if err != nil {
			return err
		}
		s.removeImage(*key)
		*key, *url = newKey, newURL
	case action == storage.DeleteSentinel:
		s.removeImage(*key)
		*key, *url = "", ""
	}
	return nil
}

func (s *Service) removeImage(key string) {
	if err := s.images.Delete(key); err != nil {
		logger.WithResource("images").WithError(err).WithField("key", key).Warn("failed to remove image")
	}
}

func (s *Service) invalidate(resource string) {
	if s.notifier != nil {
		s.notifier.Invalidate(resource)
	}
}
