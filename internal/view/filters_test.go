package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bullpen/internal/models"
)

func sampleEvents() []models.Event {
	desc := "Deep dive into covered calls"
	return []models.Event{
		{ID: "1", Title: "Options Workshop", Description: &desc, Category: "education", Status: "approved", IsPremium: true, StartTime: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)},
		{ID: "2", Title: "Meme Stock Meetup", Category: "social", Status: "pending", StartTime: time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)},
		{ID: "3", Title: "Dividend Investing AMA", Category: "education", Status: "approved", IsFeatured: true, StartTime: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)},
	}
}

func TestZeroFiltersMatchEverything(t *testing.T) {
	events := sampleEvents()
	out := EventFilters{}.Apply(events)
	assert.Len(t, out, 3)
}

func TestFiltersCombine(t *testing.T) {
	events := sampleEvents()

	out := EventFilters{Status: "approved", Category: "education"}.Apply(events)
	assert.Len(t, out, 2)

	premium := true
	out = EventFilters{Status: "approved", Premium: &premium}.Apply(events)
	assert.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestQueryMatchesTitleAndDescription(t *testing.T) {
	events := sampleEvents()

	out := EventFilters{Query: "MEME"}.Apply(events)
	assert.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)

	// description match, case insensitive
	out = EventFilters{Query: "covered calls"}.Apply(events)
	assert.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestDateRangeFilters(t *testing.T) {
	events := sampleEvents()
	from := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	out := EventFilters{From: &from, To: &to}.Apply(events)
	assert.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	events := sampleEvents()
	EventFilters{Status: "approved"}.Apply(events)

	assert.Equal(t, "1", events[0].ID)
	assert.Equal(t, "2", events[1].ID)
	assert.Equal(t, "3", events[2].ID)
}

func TestWithFiltersResetsPageAndSelection(t *testing.T) {
	state := NewListState().WithPage(4).ToggleSelect("1").ToggleSelect("2")
	assert.Equal(t, 4, state.Page)
	assert.Len(t, state.SelectedIDs(), 2)

	next := state.WithFilters(EventFilters{Status: "approved"})
	assert.Equal(t, 1, next.Page)
	assert.Empty(t, next.SelectedIDs())

	// original state untouched
	assert.Equal(t, 4, state.Page)
	assert.Len(t, state.SelectedIDs(), 2)
}

func TestToggleSelectFlips(t *testing.T) {
	state := NewListState().ToggleSelect("1")
	assert.Equal(t, []string{"1"}, state.SelectedIDs())

	state = state.ToggleSelect("1")
	assert.Empty(t, state.SelectedIDs())
}

func TestToggleSelectCopiesMap(t *testing.T) {
	first := NewListState().ToggleSelect("1")
	second := first.ToggleSelect("2")

	assert.Len(t, first.SelectedIDs(), 1)
	assert.Len(t, second.SelectedIDs(), 2)
}

func TestPageClampedToOne(t *testing.T) {
	state := NewListState().WithPage(-3)
	assert.Equal(t, 1, state.Page)
}

func TestPageSizeFallsBackToDefault(t *testing.T) {
	state := NewListState().WithPageSize(0)
	assert.Equal(t, 20, state.PageSize)

	state = state.WithPageSize(50)
	assert.Equal(t, 50, state.PageSize)
}

func TestPaginateBounds(t *testing.T) {
	events := sampleEvents()

	page := Paginate(events, 1, 2)
	assert.Len(t, page, 2)

	page = Paginate(events, 2, 2)
	assert.Len(t, page, 1)
	assert.Equal(t, "3", page[0].ID)

	page = Paginate(events, 5, 2)
	assert.Empty(t, page)
}
