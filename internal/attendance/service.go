package attendance

import (
	"errors"

	"cup-admin/internal/models"
	"cup-admin/pkg/logger"
)

var ErrAlreadyApproved = errors.New("attendance already approved")

// Store is the repository surface the service uses; tests provide an
// in-memory one.
type Store interface {
	List(page, size int, search string) ([]models.Attendance, int64, error)
	Get(id uint) (*models.Attendance, error)
	FindByUserAndEvent(userID uint, description, date string) (*models.Attendance, error)
	Create(record *models.Attendance) error
	Update(record *models.Attendance) error
	Delete(id uint) error
	GetUser(id uint) (*models.User, error)
	AddCoins(userID uint, coins int) error
	PriceFor(name string) (int, error)
}

type Notifier interface {
	Invalidate(resource string)
}

type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

func (s *Service) List(page, size int, search string) ([]models.Attendance, int64, error) {
	return s.store.List(page, size, search)
}

// Approve marks a pending record approved and credits its coins.
func (s *Service) Approve(id uint) error {
	record, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if record.Approved {
		return ErrAlreadyApproved
	}
	record.Approved = true
	if err := s.store.Update(record); err != nil {
		return err
	}
	if err := s.store.AddCoins(record.UserID, record.Coins); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) Delete(id uint) error {
	record, err := s.store.Get(id)
	if err != nil {
		return err
	}
	// Deleting an approved record takes its coins back.
	if record.Approved {
		if err := s.store.AddCoins(record.UserID, -record.Coins); err != nil {
			return err
		}
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// CreateBulk records one liturgy for a set of users and partitions the
// outcome per user: pending records get approved and missing records are
// created approved (approvedUsers); records that were already approved
// are skipped (failedUsers).
func (s *Service) CreateBulk(req *models.BulkAttendanceRequest) (*models.BulkAttendanceResult, error) {
	coins, err := s.store.PriceFor(req.LiturgyName)
	if err != nil {
		return nil, err
	}

	result := &models.BulkAttendanceResult{
		ApprovedUsers: []string{},
		FailedUsers:   []string{},
	}

	for _, userID := range req.UserIDs {
		user, err := s.store.GetUser(userID)
		if err != nil {
			logger.WithResource("attendances").WithField("user_id", userID).Warn("bulk attendance skipped unknown user")
			continue
		}

		existing, err := s.store.FindByUserAndEvent(userID, req.LiturgyName, req.Date)
		if err != nil {
			return nil, err
		}

		switch {
		case existing == nil:
			record := &models.Attendance{
				UserID:      userID,
				Date:        req.Date,
				Description: req.LiturgyName,
				Coins:       coins,
				Approved:    true,
			}
			if err := s.store.Create(record); err != nil {
				return nil, err
			}
			if err := s.store.AddCoins(userID, coins); err != nil {
				return nil, err
			}
			result.ApprovedUsers = append(result.ApprovedUsers, user.Username)

		case !existing.Approved:
			existing.Approved = true
			if err := s.store.Update(existing); err != nil {
				return nil, err
			}
			if err := s.store.AddCoins(userID, existing.Coins); err != nil {
				return nil, err
			}
			result.ApprovedUsers = append(result.ApprovedUsers, user.Username)

		default:
			result.FailedUsers = append(result.FailedUsers, user.Username)
		}
	}

	s.invalidate()
	return result, nil
}

func (s *Service) invalidate() {
	if s.notifier != nil {
		s.notifier.Invalidate("attendances")
	}
}
