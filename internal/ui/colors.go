package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/elwarren/meshtastic-menubar/internal/node"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2"
	ColorError   lipgloss.Color = "1"
	ColorWarning lipgloss.Color = "3"
	ColorInfo    lipgloss.Color = "6"
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7"
	ColorSecondary lipgloss.Color = "4"
	ColorMuted     lipgloss.Color = "8"
)

// Freshness colors, matching the menu's status dots.
var freshnessColors = map[node.Category]lipgloss.Color{
	node.CategoryUnknown:  "8",
	node.CategoryFresh:    "2",
	node.CategoryFewHours: "3",
	node.CategoryHalfDay:  "208",
	node.CategoryRecent:   "1",
	node.CategoryWeek:     "5",
	node.CategoryCold:     "4",
}

// FreshnessColor returns the terminal color for a freshness category.
func FreshnessColor(c node.Category) lipgloss.Color {
	if color, ok := freshnessColors[c]; ok {
		return color
	}
	return ColorMuted
}

// FreshnessStyle colors text by freshness.
func FreshnessStyle(c node.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(FreshnessColor(c))
}
