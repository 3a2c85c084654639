package user

import (
	"crypto/rand"
	"errors"
	"math/big"
	"mime/multipart"

	"golang.org/x/crypto/bcrypt"

	"cup-admin/internal/models"
	"cup-admin/internal/storage"
	"cup-admin/pkg/logger"
)

var ErrInsufficientCoins = errors.New("not enough coins")

// Notifier publishes resource invalidation events to connected dashboards.
type Notifier interface {
	Invalidate(resource string)
}

type Service struct {
	repo     *Repository
	images   *storage.ImageStore
	notifier Notifier
}

func NewService(repo *Repository, images *storage.ImageStore, notifier Notifier) *Service {
	return &Service{repo: repo, images: images, notifier: notifier}
}

func (s *Service) List(page, size int, search string) ([]models.User, int64, error) {
	return s.repo.List(page, size, search)
}

func (s *Service) ListByCoins(page, size int, search string) ([]models.User, int64, error) {
	return s.repo.ListByCoins(page, size, search)
}

func (s *Service) Get(username string) (*models.User, error) {
	return s.repo.GetByUsername(username)
}

// Register creates an unconfirmed account from the guest signup form.
func (s *Service) Register(req *models.RegisterRequest) (*models.User, error) {
	year, err := s.repo.GetSchoolYearByName(req.SchoolYear)
	if err != nil {
		return nil, errors.New("unknown school year")
	}
	if exists, err := s.repo.Exists(req.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.New("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:           req.Username,
		Password:           string(hashed),
		SchoolYearID:       &year.ID,
		LeaderboardBoolean: true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	s.invalidate()
	return user, nil
}

func (s *Service) Create(username, password string) (*models.User, error) {
	if exists, err := s.repo.Exists(username); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.New("username already taken")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:           username,
		Password:           string(hashed),
		Confirmed:          true,
		LeaderboardBoolean: true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	s.invalidate()
	return user, nil
}

// CreateBulk makes confirmed accounts with generated passwords and returns
// username -> password for the credential CSV. Usernames already taken are
// skipped, not failed.
func (s *Service) CreateBulk(usernames []string) (map[string]string, error) {
	credentials := make(map[string]string, len(usernames))
	for _, username := range usernames {
		if username == "" {
			continue
		}
		exists, err := s.repo.Exists(username)
		if err != nil {
			return nil, err
		}
		if exists {
			logger.WithResource("users").WithField("username", username).Info("bulk create skipped existing user")
			continue
		}

		password, err := GeneratePassword(10)
		if err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user := &models.User{
			Username:           username,
			Password:           string(hashed),
			Confirmed:          true,
			LeaderboardBoolean: true,
		}
		if err := s.repo.Create(user); err != nil {
			return nil, err
		}
		credentials[username] = password
	}
	s.invalidate()
	return credentials, nil
}

func (s *Service) Delete(username string) error {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return err
	}
	if user.ImageKey != "" && s.images != nil {
		if err := s.images.Delete(user.ImageKey); err != nil {
			logger.WithResource("users").WithError(err).Warn("could not remove user image")
		}
	}
	if err := s.repo.Delete(username); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) AddCoins(username string, coins int) (int, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return 0, err
	}
	user.Coins += coins
	if err := s.repo.Update(user); err != nil {
		return 0, err
	}
	s.invalidate()
	return user.Coins, nil
}

func (s *Service) RemoveCoins(username string, coins int) (int, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return 0, err
	}
	if user.Coins < coins {
		return user.Coins, ErrInsufficientCoins
	}
	user.Coins -= coins
	if err := s.repo.Update(user); err != nil {
		return 0, err
	}
	s.invalidate()
	return user.Coins, nil
}

func (s *Service) ChangePassword(username, password string) error {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.repo.Update(user)
}

func (s *Service) Confirm(username string) error {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return err
	}
	user.Confirmed = true
	if err := s.repo.Update(user); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) SetLeaderboard(id uint, visible bool) error {
	if err := s.repo.SetLeaderboard(id, visible); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ChangeImage replaces the user's profile image, dropping the previous
// stored file.
func (s *Service) ChangeImage(username string, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	key, url, err := s.images.Save(file, header)
	if err != nil {
		return nil, err
	}
	if user.ImageKey != "" {
		if err := s.images.Delete(user.ImageKey); err != nil {
			logger.WithResource("users").WithError(err).Warn("could not remove previous user image")
		}
	}
	user.ImageKey = key
	user.ImageURL = url
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	s.invalidate()
	return user, nil
}

func (s *Service) ListSchoolYears() ([]models.SchoolYear, error) {
	return s.repo.ListSchoolYears()
}

func (s *Service) invalidate() {
	if s.notifier != nil {
		s.notifier.Invalidate("users")
	}
}

const passwordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword draws from a charset without lookalike characters so
// printed credential sheets stay readable.
func GeneratePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}
