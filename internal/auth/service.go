package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"cup-admin/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AdminStore is the slice of the repository the service needs; tests swap
// in an in-memory one.
type AdminStore interface {
	GetAdminByUsername(username string) (*models.Admin, error)
	GetAdminByID(id uint) (*models.Admin, error)
	ListAdmins(page, size int, search string) ([]models.Admin, int64, error)
	CreateAdmin(admin *models.Admin) error
	UpdateAdmin(admin *models.Admin) error
	DeleteAdmin(id uint) error
	GetSchoolYear(id uint) (*models.SchoolYear, error)
	ListSchoolYears() ([]models.SchoolYear, error)
}

type Service struct {
	store     AdminStore
	jwtSecret []byte
}

func NewService(store AdminStore, jwtSecret string) *Service {
	return &Service{
		store:     store,
		jwtSecret: []byte(jwtSecret),
	}
}

// Login checks the password and mints the token plus the user attributes
// the dashboard keeps in local storage.
func (s *Service) Login(username, password string) (*models.LoginResponse, error) {
	admin, err := s.store.GetAdminByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  admin.ID,
		"username": admin.Username,
		"role":     string(admin.Role),
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		JWTToken: signed,
		Username: admin.Username,
		UserID:   admin.ID,
		Role:     admin.Role,
	}, nil
}

func (s *Service) ListAdmins(page, size int, search string) ([]models.Admin, int64, error) {
	return s.store.ListAdmins(page, size, search)
}

func (s *Service) GetAdmin(id uint) (*models.Admin, error) {
	return s.store.GetAdminByID(id)
}

func (s *Service) CreateAdmin(payload *models.AdminPayload) (*models.Admin, error) {
	if payload.Password == "" {
		return nil, errors.New("password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Username: payload.Username,
		Password: string(hashed),
		Role:     payload.Role,
	}
	if payload.SchoolYear != 0 {
		year, err := s.store.GetSchoolYear(payload.SchoolYear)
		if err != nil {
			return nil, errors.New("unknown school year")
		}
		admin.SchoolYearID = &year.ID
		admin.SchoolYear = year
	}
	if err := s.store.CreateAdmin(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// UpdateAdmin replaces the mutable fields; an empty password keeps the
// stored hash.
func (s *Service) UpdateAdmin(id uint, payload *models.AdminPayload) (*models.Admin, error) {
	admin, err := s.store.GetAdminByID(id)
	if err != nil {
		return nil, err
	}

	admin.Username = payload.Username
	admin.Role = payload.Role
	if payload.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		admin.Password = string(hashed)
	}
	if payload.SchoolYear != 0 {
		year, err := s.store.GetSchoolYear(payload.SchoolYear)
		if err != nil {
			return nil, errors.New("unknown school year")
		}
		admin.SchoolYearID = &year.ID
		admin.SchoolYear = year
	}

	if err := s.store.UpdateAdmin(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *Service) DeleteAdmin(id uint) error {
	return s.store.DeleteAdmin(id)
}

func (s *Service) ListSchoolYears() ([]models.SchoolYear, error) {
	return s.store.ListSchoolYears()
}
