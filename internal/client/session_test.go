package client

import (
	"path/filepath"
	"testing"

	"cup-admin/internal/models"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStoreAt(filepath.Join(t.TempDir(), "session.json"))

	session, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}
	if session.LoggedIn() {
		t.Error("missing file must mean logged out")
	}

	saved := &Session{Token: "tok", Username: "ostaz", UserID: 4, Role: models.RoleAdmin}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *saved {
		t.Errorf("round trip mismatch: %+v != %+v", loaded, saved)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	cleared, err := store.Load()
	if err != nil {
		t.Fatalf("Load after Clear failed: %v", err)
	}
	if cleared.LoggedIn() {
		t.Error("cleared store must mean logged out")
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear must be idempotent, got %v", err)
	}
}
