package client

import (
	"reflect"
	"testing"

	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
)

func userPage(total int64, ids ...uint) pagination.Page[models.User] {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{ID: id, Username: string(rune('a' + id))})
	}
	return pagination.Page[models.User]{TotalElements: total, Data: users}
}

func TestMergeIsIdempotent(t *testing.T) {
	r := NewRoster()
	r.Merge(userPage(3, 1, 2))
	r.Merge(userPage(3, 1, 2))

	if r.Len() != 2 {
		t.Fatalf("expected 2 users after duplicate merge, got %d", r.Len())
	}
	if !r.HasMore() {
		t.Error("expected more pages with 2 of 3 loaded")
	}

	r.Merge(userPage(3, 3))
	if r.Len() != 3 || r.HasMore() {
		t.Errorf("expected complete roster, got len=%d hasMore=%v", r.Len(), r.HasMore())
	}
}

func TestMergeNeverExceedsTotal(t *testing.T) {
	r := NewRoster()
	r.Merge(userPage(2, 1, 2, 3))

	if r.Len() != 2 {
		t.Errorf("roster must be capped at the reported total, got %d", r.Len())
	}
}

func TestEmptyRosterHasMoreUntilFirstPage(t *testing.T) {
	r := NewRoster()
	if !r.HasMore() {
		t.Error("a roster with no fetched pages must want the first page")
	}
	r.Merge(userPage(0))
	if r.HasMore() {
		t.Error("an empty result must stop fetching")
	}
}

func TestToggleAllIsSymmetric(t *testing.T) {
	r := NewRoster()
	r.Merge(userPage(3, 1, 2, 3))

	r.ToggleAll()
	if !r.AllSelected() {
		t.Fatal("expected everyone selected")
	}
	if got := r.SelectedIDs(); !reflect.DeepEqual(got, []uint{1, 2, 3}) {
		t.Errorf("unexpected selection: %v", got)
	}

	r.ToggleAll()
	if r.AllSelected() || len(r.SelectedIDs()) != 0 {
		t.Error("second toggle must clear the selection")
	}
}

func TestToggleSingleUser(t *testing.T) {
	r := NewRoster()
	r.Merge(userPage(2, 1, 2))

	r.Toggle(2)
	if got := r.SelectedIDs(); !reflect.DeepEqual(got, []uint{2}) {
		t.Errorf("unexpected selection: %v", got)
	}
	r.Toggle(2)
	if len(r.SelectedIDs()) != 0 {
		t.Error("toggling again must deselect")
	}
	r.Toggle(99)
	if len(r.SelectedIDs()) != 0 {
		t.Error("unknown ids must be ignored")
	}
}

func TestEmptyRosterIsNeverAllSelected(t *testing.T) {
	r := NewRoster()
	if r.AllSelected() {
		t.Error("empty roster must not report all selected")
	}
}
