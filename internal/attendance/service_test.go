package attendance

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"cup-admin/internal/models"
)

type memStore struct {
	users   map[uint]*models.User
	records []*models.Attendance
	prices  map[string]int
	nextID  uint
}

func newMemStore() *memStore {
	return &memStore{
		users: map[uint]*models.User{
			1: {ID: 1, Username: "mina"},
			2: {ID: 2, Username: "kyrillos"},
			3: {ID: 3, Username: "veronia"},
		},
		prices: map[string]int{"Vespers": 15},
		nextID: 1,
	}
}

func (m *memStore) List(page, size int, search string) ([]models.Attendance, int64, error) {
	var out []models.Attendance
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) Get(id uint) (*models.Attendance, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memStore) FindByUserAndEvent(userID uint, description, date string) (*models.Attendance, error) {
	for _, r := range m.records {
		if r.UserID == userID && r.Description == description && r.Date == date {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memStore) Create(record *models.Attendance) error {
	record.ID = m.nextID
	m.nextID++
	m.records = append(m.records, record)
	return nil
}

func (m *memStore) Update(record *models.Attendance) error { return nil }

func (m *memStore) Delete(id uint) error {
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memStore) GetUser(id uint) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func (m *memStore) AddCoins(userID uint, coins int) error {
	if user, ok := m.users[userID]; ok {
		user.Coins += coins
	}
	return nil
}

func (m *memStore) PriceFor(name string) (int, error) {
	return m.prices[name], nil
}

func TestCreateBulkPartitionsUsers(t *testing.T) {
	store := newMemStore()
	// mina already approved, kyrillos pending, veronia has no record.
	store.records = []*models.Attendance{
		{ID: 90, UserID: 1, Description: "Vespers", Date: "2026-08-30", Coins: 15, Approved: true},
		{ID: 91, UserID: 2, Description: "Vespers", Date: "2026-08-30", Coins: 15, Approved: false},
	}
	store.nextID = 100
	service := NewService(store, nil)

	result, err := service.CreateBulk(&models.BulkAttendanceRequest{
		Date:        "2026-08-30",
		LiturgyName: "Vespers",
		UserIDs:     []uint{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("bulk failed: %v", err)
	}

	sort.Strings(result.ApprovedUsers)
	if !reflect.DeepEqual(result.ApprovedUsers, []string{"kyrillos", "veronia"}) {
		t.Fatalf("approved = %v", result.ApprovedUsers)
	}
	if !reflect.DeepEqual(result.FailedUsers, []string{"mina"}) {
		t.Fatalf("failed = %v", result.FailedUsers)
	}

	// The pending record got approved, the missing one created approved.
	pending, _ := store.Get(91)
	if !pending.Approved {
		t.Fatal("pending record should be approved")
	}
	created, _ := store.FindByUserAndEvent(3, "Vespers", "2026-08-30")
	if created == nil || !created.Approved || created.Coins != 15 {
		t.Fatalf("created record wrong: %+v", created)
	}

	// Coins credited only for newly approved users.
	if store.users[1].Coins != 0 {
		t.Fatalf("already approved user should not be credited again, got %d", store.users[1].Coins)
	}
	if store.users[2].Coins != 15 || store.users[3].Coins != 15 {
		t.Fatalf("coins = %d, %d", store.users[2].Coins, store.users[3].Coins)
	}
}

func TestCreateBulkSkipsUnknownUsers(t *testing.T) {
	store := newMemStore()
	service := NewService(store, nil)

	result, err := service.CreateBulk(&models.BulkAttendanceRequest{
		Date:        "2026-08-30",
		LiturgyName: "Vespers",
		UserIDs:     []uint{1, 999},
	})
	if err != nil {
		t.Fatalf("bulk failed: %v", err)
	}
	if !reflect.DeepEqual(result.ApprovedUsers, []string{"mina"}) {
		t.Fatalf("approved = %v", result.ApprovedUsers)
	}
	if len(result.FailedUsers) != 0 {
		t.Fatalf("unknown users are skipped, not failed: %v", result.FailedUsers)
	}
}

func TestApproveCreditsCoinsOnce(t *testing.T) {
	store := newMemStore()
	store.records = []*models.Attendance{
		{ID: 5, UserID: 1, Description: "Vespers", Date: "2026-08-30", Coins: 15},
	}
	service := NewService(store, nil)

	if err := service.Approve(5); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if store.users[1].Coins != 15 {
		t.Fatalf("coins = %d", store.users[1].Coins)
	}

	if err := service.Approve(5); err != ErrAlreadyApproved {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}
	if store.users[1].Coins != 15 {
		t.Fatal("second approve must not credit again")
	}
}

func TestDeleteApprovedTakesCoinsBack(t *testing.T) {
	store := newMemStore()
	store.records = []*models.Attendance{
		{ID: 6, UserID: 1, Description: "Vespers", Date: "2026-08-30", Coins: 15, Approved: true},
	}
	store.users[1].Coins = 15
	service := NewService(store, nil)

	if err := service.Delete(6); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.users[1].Coins != 0 {
		t.Fatalf("coins = %d", store.users[1].Coins)
	}
}
