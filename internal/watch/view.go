package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/ui"
	"github.com/elwarren/meshtastic-menubar/internal/util"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	mutedStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	errStyle   = lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle  = lipgloss.NewStyle().Foreground(ui.ColorWarning)
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("📡 Meshtastic") + " " + mutedStyle.Render(m.opts.Source.Describe()) + "\n")
	b.WriteString(m.indicator.View() + "\n\n")

	if m.lastErr != nil {
		b.WriteString(errStyle.Render(errors.OneLine(m.lastErr)) + "\n\n")
	}

	if len(m.rows) > 0 {
		b.WriteString(m.table.View() + "\n")
	} else if m.lastErr == nil && !m.fetching {
		b.WriteString(mutedStyle.Render("No nodes reported") + "\n")
	}

	for _, err := range m.saveErrs {
		b.WriteString(warnStyle.Render("Log: "+errors.OneLine(err)) + "\n")
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("r refresh · q quit · every %s", humanDuration(m.opts.Interval.Seconds()))))
	return b.String()
}

// summary describes the latest fetch for the indicator line.
func (m Model) summary() string {
	if m.lastErr != nil {
		return "Fetch failed"
	}
	n := len(m.rows)
	return humanize.Comma(int64(n)) + " " + util.Pluralize(n, "node", "nodes")
}

func humanDuration(secs float64) string {
	if secs < 60 {
		return humanize.FtoaWithDigits(secs, 0) + "s"
	}
	return humanize.FtoaWithDigits(secs/60, 1) + "m"
}
