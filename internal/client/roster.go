package client

import (
	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
)

// Roster accumulates paged user results into one list for the bulk
// attendance picker. Merging a page twice changes nothing, and the list
// never grows past what the server reports as the total.
type Roster struct {
	order    []uint
	byID     map[uint]models.User
	selected map[uint]bool
	total    int64
	loaded   bool
}

func NewRoster() *Roster {
	return &Roster{
		byID:     map[uint]models.User{},
		selected: map[uint]bool{},
	}
}

// Merge folds a fetched page in, keyed by user id.
func (r *Roster) Merge(page pagination.Page[models.User]) {
	r.total = page.TotalElements
	r.loaded = true
	for _, user := range page.Data {
		if _, ok := r.byID[user.ID]; ok {
			continue
		}
		if int64(len(r.order)) >= r.total {
			break
		}
		r.byID[user.ID] = user
		r.order = append(r.order, user.ID)
	}
}

// HasMore reports whether another page is worth fetching.
func (r *Roster) HasMore() bool {
	return !r.loaded || int64(len(r.order)) < r.total
}

// Users returns the accumulated list in arrival order.
func (r *Roster) Users() []models.User {
	users := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.byID[id])
	}
	return users
}

func (r *Roster) Len() int {
	return len(r.order)
}

func (r *Roster) Toggle(id uint) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	if r.selected[id] {
		delete(r.selected, id)
		return
	}
	r.selected[id] = true
}

func (r *Roster) Selected(id uint) bool {
	return r.selected[id]
}

// AllSelected is true when every loaded user is selected; an empty roster
// has nothing selected.
func (r *Roster) AllSelected() bool {
	return len(r.order) > 0 && len(r.selected) == len(r.order)
}

// ToggleAll selects every loaded user, or clears the selection when
// everyone is already selected.
func (r *Roster) ToggleAll() {
	if r.AllSelected() {
		r.selected = map[uint]bool{}
		return
	}
	for _, id := range r.order {
		r.selected[id] = true
	}
}

// SelectedIDs returns the selection in arrival order.
func (r *Roster) SelectedIDs() []uint {
	ids := make([]uint, 0, len(r.selected))
	for _, id := range r.order {
		if r.selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
