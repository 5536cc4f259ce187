package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullpen/internal/models"
)

func exportFixture() []models.Event {
	return []models.Event{
		{
			ID:          "ev-1",
			Title:       "Quarterly Earnings Review",
			Category:    "education",
			Status:      "approved",
			OrganizerID: "org-1",
			IsPremium:   true,
			TicketPrice: decimal.RequireFromString("25.50"),
			Capacity:    100,
			StartTime:   time.Date(2026, 4, 15, 19, 0, 0, 0, time.UTC),
		},
		{
			ID:        "ev-2",
			Title:     "Crypto \"Experts\" Panel, Live",
			Category:  "social",
			Status:    "pending",
			StartTime: time.Date(2026, 4, 20, 19, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSVHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportFixture()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "ev-1", records[1][0])
	assert.Equal(t, "25.50", records[1][6])
	assert.Equal(t, "true", records[1][5])

	// quotes and commas survive the round trip
	assert.Equal(t, "Crypto \"Experts\" Panel, Live", records[2][1])
	assert.Equal(t, "0.00", records[2][6])
}

func TestWriteCSVEmptySetStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}

func TestWriteHTMLEscapesContent(t *testing.T) {
	events := exportFixture()
	events[0].Title = "<script>alert(1)</script>"

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, events))

	html := buf.String()
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "2 events")
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
}
