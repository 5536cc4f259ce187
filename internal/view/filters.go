package view

import (
	"strings"
	"time"

	"bullpen/internal/models"
)

// EventFilters is the serializable filter state for the events back-office
// list. A zero value matches everything.
type EventFilters struct {
	Status      string     `json:"status,omitempty"`
	Category    string     `json:"category,omitempty"`
	OrganizerID string     `json:"organizer_id,omitempty"`
	Query       string     `json:"query,omitempty"`
	Premium     *bool      `json:"premium,omitempty"`
	Featured    *bool      `json:"featured,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
}

// ListState is the full view-model for the list: filters, paging and the
// current selection. It is a plain value; reducers return new states
// instead of mutating.
type ListState struct {
	Filters  EventFilters    `json:"filters"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Selected map[string]bool `json:"selected,omitempty"`
}

// NewListState returns the default list state
func NewListState() ListState {
	return ListState{Page: 1, PageSize: 20}
}

// WithFilters replaces the filters and resets paging and selection
func (s ListState) WithFilters(f EventFilters) ListState {
	s.Filters = f
	s.Page = 1
	s.Selected = nil
	return s
}

// WithPage moves to a page, clamped to >= 1
func (s ListState) WithPage(page int) ListState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// WithPageSize changes the page size, clamped to >= 1
func (s ListState) WithPageSize(size int) ListState {
	if size < 1 {
		size = 20
	}
	s.PageSize = size
	return s
}

// ToggleSelect flips one id in the selection set
func (s ListState) ToggleSelect(id string) ListState {
	next := make(map[string]bool, len(s.Selected)+1)
	for k, v := range s.Selected {
		next[k] = v
	}
	if next[id] {
		delete(next, id)
	} else {
		next[id] = true
	}
	s.Selected = next
	return s
}

// ClearSelection drops the selection set
func (s ListState) ClearSelection() ListState {
	s.Selected = nil
	return s
}

// SelectedIDs returns the selected ids in no particular order
func (s ListState) SelectedIDs() []string {
	ids := make([]string, 0, len(s.Selected))
	for id, on := range s.Selected {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

// Matches reports whether one event passes every active predicate
func (f EventFilters) Matches(e *models.Event) bool {
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.OrganizerID != "" && e.OrganizerID != f.OrganizerID {
		return false
	}
	if f.Premium != nil && e.IsPremium != *f.Premium {
		return false
	}
	if f.Featured != nil && e.IsFeatured != *f.Featured {
		return false
	}
	if f.From != nil && e.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && e.StartTime.After(*f.To) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		title := strings.ToLower(e.Title)
		var desc string
		if e.Description != nil {
			desc = strings.ToLower(*e.Description)
		}
		if !strings.Contains(title, q) && !strings.Contains(desc, q) {
			return false
		}
	}
	return true
}

// Apply filters a loaded event set. The input slice is never mutated.
func (f EventFilters) Apply(events []models.Event) []models.Event {
	out := make([]models.Event, 0, len(events))
	for i := range events {
		if f.Matches(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

// Paginate slices one page out of the filtered set
func Paginate(events []models.Event, page, pageSize int) []models.Event {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(events) {
		return []models.Event{}
	}
	end := start + pageSize
	if end > len(events) {
		end = len(events)
	}
	return events[start:end]
}
