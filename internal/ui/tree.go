package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/elwarren/meshtastic-menubar/internal/menu"
)

const treeIndent = "  "

// RenderTree draws menu lines as an indented outline so a menu can be
// checked in a terminal. Clickable entries get a trailing arrow; attributes
// themselves are not shown.
func RenderTree(lines []menu.Line) string {
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	linkStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	topStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	for _, l := range lines {
		indent := strings.Repeat(treeIndent, l.Depth)
		if l.Separator {
			b.WriteString(indent + mutedStyle.Render("────") + "\n")
			continue
		}

		text := l.Text
		if l.Depth == 0 {
			text = topStyle.Render(text)
		}
		if clickable(l) {
			text += " " + linkStyle.Render("↗")
		}
		b.WriteString(indent + text + "\n")
	}
	return b.String()
}

func clickable(l menu.Line) bool {
	for _, a := range l.Attrs {
		if a.Action != nil || a.Key == "href" {
			return true
		}
	}
	return false
}
