package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/elwarren/meshtastic-menubar/internal/node"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NodeColumns are the columns of the node table.
var NodeColumns = []TableColumn{
	{Title: " ", Width: 1},
	{Title: "ID", Width: 11},
	{Title: "Short", Width: 6},
	{Title: "Long Name", Width: 24},
	{Title: "Hops", Width: 4},
	{Title: "SNR", Width: 6},
	{Title: "Battery", Width: 7},
	{Title: "Heard", Width: 16},
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row, height int) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	if height <= 0 {
		height = len(rows) + 1
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorMuted).
		Bold(false)

	t.SetStyles(s)
	return t
}

// NodeRow is one node flattened for tabular display.
type NodeRow struct {
	ID       string
	Self     bool
	Short    string
	Long     string
	Hops     string
	SNR      string
	Battery  string
	Heard    string
	Category node.Category
}

// NodeRows flattens the table in the given order. Heard times are shown
// relative to now.
func NodeRows(t *node.Table, order []string, now time.Time) []NodeRow {
	self := t.Self()
	rows := make([]NodeRow, 0, len(order))
	for _, id := range order {
		r := t.Get(id)
		if r == nil {
			continue
		}
		f := node.Classify(r.LastHeard, now)

		row := NodeRow{
			ID:       id,
			Self:     id == self,
			Short:    "-",
			Long:     "-",
			Hops:     "-",
			SNR:      "-",
			Battery:  "-",
			Heard:    "never",
			Category: f.Category,
		}
		if r.User != nil {
			row.Short = deref(r.User.ShortName)
			row.Long = deref(r.User.LongName)
		}
		if r.HopsAway != nil {
			row.Hops = fmt.Sprintf("%d", *r.HopsAway)
		}
		if r.SNR != nil {
			row.SNR = humanize.FtoaWithDigits(*r.SNR, 2)
		}
		if r.DeviceMetrics != nil && r.DeviceMetrics.BatteryLevel != nil {
			row.Battery = humanize.FtoaWithDigits(*r.DeviceMetrics.BatteryLevel, 0) + "%"
		}
		if f.Known {
			row.Heard = humanize.RelTime(f.HeardAt, now, "ago", "from now")
		}
		rows = append(rows, row)
	}
	return rows
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func (r NodeRow) marker() string {
	if r.Self {
		return SymbolSelf
	}
	return SymbolPass
}

// Cells returns the row as table cells, without styling.
func (r NodeRow) Cells() table.Row {
	return table.Row{r.marker(), r.ID, r.Short, r.Long, r.Hops, r.SNR, r.Battery, r.Heard}
}

// NodeTable builds an interactive table of nodes for the watch view.
func NodeTable(rows []NodeRow, height int) table.Model {
	cells := make([]table.Row, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}
	return NewTable(NodeColumns, cells, height)
}

// RenderNodeTable renders nodes as plain text with the status marker colored
// by freshness.
func RenderNodeTable(rows []NodeRow) string {
	if len(rows) == 0 {
		return "No nodes reported\n"
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	var b strings.Builder
	var header []string
	for _, c := range NodeColumns {
		header = append(header, padRight(c.Title, c.Width))
	}
	b.WriteString(headerStyle.Render(strings.TrimRight(strings.Join(header, " "), " ")) + "\n")

	for _, r := range rows {
		cells := r.Cells()
		parts := make([]string, len(cells))
		for i, cell := range cells {
			text := padRight(truncateCell(cell, NodeColumns[i].Width), NodeColumns[i].Width)
			if i == 0 {
				text = FreshnessStyle(r.Category).Render(text)
			}
			parts[i] = text
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, " "), " ") + "\n")
	}
	return b.String()
}

func truncateCell(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// DoctorCheckRow represents a row in the doctor diagnostic table.
type DoctorCheckRow struct {
	Status     string // "pass", "warn", "fail"
	Category   string
	Message    string
	Suggestion string
}

// RenderDoctorTable renders doctor check results grouped by category.
func RenderDoctorTable(rows []DoctorCheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	categories := make(map[string][]DoctorCheckRow)
	var order []string
	for _, row := range rows {
		if _, exists := categories[row.Category]; !exists {
			order = append(order, row.Category)
		}
		categories[row.Category] = append(categories[row.Category], row)
	}

	var b strings.Builder
	for _, cat := range order {
		b.WriteString(headerStyle.Render(cat) + "\n")

		for _, row := range categories[cat] {
			var icon string
			switch row.Status {
			case "pass":
				icon = successStyle.Render(SymbolPass)
			case "warn":
				icon = warnStyle.Render(SymbolPass)
			case "fail":
				icon = errorStyle.Render(SymbolFail)
			default:
				icon = mutedStyle.Render(SymbolSkipped)
			}

			b.WriteString("  " + icon + " " + row.Message + "\n")
			if row.Suggestion != "" && row.Status != "pass" {
				b.WriteString("    " + mutedStyle.Render(row.Suggestion) + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
