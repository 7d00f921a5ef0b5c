package models

import "time"

// CompletionStatus records how a meal slot was resolved. The empty string
// means the slot is still unmarked (the server sends null, which decodes
// to "").
type CompletionStatus string

const (
	StatusFollowed CompletionStatus = "followed"
	StatusModified CompletionStatus = "modified"
	StatusSkipped  CompletionStatus = "skipped"
)

// Valid reports whether s is one of the known completion statuses.
func (s CompletionStatus) Valid() bool {
	switch s {
	case StatusFollowed, StatusModified, StatusSkipped:
		return true
	}
	return false
}

// MealRef is the meal assigned to a slot, if any.
type MealRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Slot is one meal assignment within a day.
type Slot struct {
	ID               string           `json:"id"`
	MealTypeID       string           `json:"meal_type_id"`
	MealTypeName     string           `json:"meal_type_name,omitempty"`
	Meal             *MealRef         `json:"meal,omitempty"`
	CompletionStatus CompletionStatus `json:"completion_status,omitempty"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	IsNext           bool             `json:"is_next"`
}

// Marked reports whether the slot has a completion status.
func (s Slot) Marked() bool {
	return s.CompletionStatus != ""
}

// DayStats are the aggregate numbers shown on a day card.
type DayStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// DaySnapshot is the ordered slot sequence for one calendar date.
// Completed and the per-slot IsNext flags are derived from the slots
// and must be recomputed after every mutation; Recalculate is the only
// way they change.
type DaySnapshot struct {
	Date  string   `json:"date"`
	Slots []Slot   `json:"slots"`
	Stats DayStats `json:"stats"`
}

// Recalculate rewrites the derived fields: IsNext is true for exactly the
// first unmarked slot in stored order (none when all are marked), and
// Stats.Completed counts marked slots.
func (d *DaySnapshot) Recalculate() {
	next := -1
	completed := 0
	for i := range d.Slots {
		if d.Slots[i].Marked() {
			completed++
		} else if next == -1 {
			next = i
		}
	}
	for i := range d.Slots {
		d.Slots[i].IsNext = i == next
	}
	d.Stats.Total = len(d.Slots)
	d.Stats.Completed = completed
}

// FindSlot returns the index of the slot with the given id, or -1.
func (d *DaySnapshot) FindSlot(id string) int {
	for i := range d.Slots {
		if d.Slots[i].ID == id {
			return i
		}
	}
	return -1
}

// Unmarked returns the slots without a completion status, in day order.
func (d *DaySnapshot) Unmarked() []Slot {
	var out []Slot
	for _, s := range d.Slots {
		if !s.Marked() {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a deep copy, used to capture pre-mutation state for rollback.
func (d *DaySnapshot) Clone() *DaySnapshot {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Slots = make([]Slot, len(d.Slots))
	copy(cp.Slots, d.Slots)
	for i := range cp.Slots {
		if d.Slots[i].Meal != nil {
			m := *d.Slots[i].Meal
			cp.Slots[i].Meal = &m
		}
		if d.Slots[i].CompletedAt != nil {
			t := *d.Slots[i].CompletedAt
			cp.Slots[i].CompletedAt = &t
		}
	}
	return &cp
}
