package export

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"bullpen/internal/models"
)

// CSV and HTML exports of the filtered event set. These are flat download
// files with no schema contract beyond the header row.

var csvHeader = []string{
	"id", "title", "category", "status", "organizer_id",
	"is_premium", "ticket_price", "capacity", "is_featured",
	"featured_priority", "start_time",
}

// WriteCSV writes one row per event with a stable header
func WriteCSV(w io.Writer, events []models.Event) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range events {
		row := []string{
			e.ID,
			e.Title,
			e.Category,
			e.Status,
			e.OrganizerID,
			strconv.FormatBool(e.IsPremium),
			e.TicketPrice.StringFixed(2),
			strconv.Itoa(e.Capacity),
			strconv.FormatBool(e.IsFeatured),
			strconv.Itoa(e.FeaturedPriority),
			e.StartTime.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Events report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h1>Events report</h1>
<p>Generated {{.GeneratedAt}} ({{len .Events}} events)</p>
<table>
<tr><th>Title</th><th>Category</th><th>Status</th><th>Premium</th><th>Price</th><th>Capacity</th><th>Featured</th><th>Starts</th></tr>
{{range .Events}}<tr>
<td>{{.Title}}</td>
<td>{{.Category}}</td>
<td>{{.Status}}</td>
<td>{{if .IsPremium}}yes{{else}}no{{end}}</td>
<td>{{.TicketPrice.StringFixed 2}}</td>
<td>{{.Capacity}}</td>
<td>{{if .IsFeatured}}#{{.FeaturedPriority}}{{else}}-{{end}}</td>
<td>{{.StartTime.Format "2006-01-02 15:04"}}</td>
</tr>{{end}}
</table>
</body>
</html>
`))

type htmlData struct {
	GeneratedAt string
	Events      []models.Event
}

// WriteHTML renders the printable report
func WriteHTML(w io.Writer, events []models.Event) error {
	data := htmlData{
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Events:      events,
	}
	return htmlReport.Execute(w, data)
}
