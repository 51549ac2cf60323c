package menu

import (
	"time"

	"github.com/elwarren/meshtastic-menubar/internal/node"
)

// Page holds everything a full menu needs besides the node table.
type Page struct {
	Options Options
	// Status is optional text next to the menu-bar logo.
	Status        string
	Version       VersionInfo
	Interval      int
	ConfigPath    string
	ConfigEntries []string
	Environ       []string
}

// Unreachable renders the short menu shown when the radio can't even be
// addressed: the reason, then the Debug sections at the top level.
func (p Page) Unreachable(err error) []Line {
	lines := IconLine(p.Status)
	lines = append(lines, Diagnostic(err)...)
	lines = append(lines, Debug(0))
	lines = append(lines, Environment(p.Environ, 1)...)
	lines = append(lines, ConfigMenu(p.ConfigPath, p.ConfigEntries, 1)...)
	return lines
}

// Render renders the full menu. When fetchErr is set or the table is empty
// the node list is replaced by a "No Device or Nodes!" notice.
func (p Page) Render(t *node.Table, fetchErr error, now time.Time) []Line {
	lines := IconLine(p.Status)
	lines = append(lines, Bar(0))
	lines = append(lines, About(p.Version.App, 1)...)
	lines = append(lines, RefreshItem(1)...)
	lines = append(lines, Broadcast(p.Options, 1)...)
	lines = append(lines, DeviceMenu(p.Options, 1)...)
	lines = append(lines, Debug(1))
	lines = append(lines, Environment(p.Environ, 2)...)
	lines = append(lines, ConfigMenu(p.ConfigPath, p.ConfigEntries, 2)...)
	lines = append(lines, Versions(p.Version, 2)...)
	lines = append(lines, Help(1)...)
	lines = append(lines, Footer(p.Interval, now)...)

	if fetchErr != nil || t.Len() == 0 {
		return append(lines, NoDevice(fetchErr)...)
	}

	lines = append(lines, NodesCount(t.Len())...)
	return append(lines, RenderNodes(t, node.Order(t), now, p.Options)...)
}
