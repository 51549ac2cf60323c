package menu

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

// Links shown in the About and Help sections.
const (
	RepoURL             = "https://github.com/elwarren/meshtastic-menubar"
	ZipURL              = RepoURL + "/archive/refs/heads/master.zip"
	MeshtasticURL       = "https://meshtastic.org/"
	MeshtasticPythonURL = "https://github.com/meshtastic/python/"
	XbarURL             = "https://github.com/matryer/xbar/"
	SwiftBarURL         = "https://github.com/swiftbar/SwiftBar/"
	ArgosURL            = "https://github.com/p-e-w/argos"
)

// IconLine is the menu-bar entry itself followed by the dropdown divider.
// status, when set, is shown next to the logo.
func IconLine(status string) []Line {
	return []Line{
		Item(0, status, TemplateImage(Logo)),
		Sep(0),
	}
}

// Bar is the top dropdown entry.
func Bar(depth int) Line {
	return Item(depth, "Meshtastic Menubar")
}

// About lists project and dependency links.
func About(version string, depth int) []Line {
	return []Line{
		Item(depth, IconWaffle+" About"),
		Item(depth+1, "Meshtastic Menubar", Href(RepoURL)),
		Item(depth+1, "Version: "+version, Href(ZipURL)),
		Sep(depth + 1),
		Item(depth+1, "Built with:"),
		Item(depth+1, "Meshtastic Project", Href(MeshtasticURL)),
		Item(depth+1, "Meshtastic Python", Href(MeshtasticPythonURL)),
		Item(depth+1, "xbar (bitbar)", Href(XbarURL)),
		Item(depth+1, "Swiftbar", Href(SwiftBarURL)),
		Item(depth+1, "Argos", Href(ArgosURL)),
	}
}

// RefreshItem re-runs the plugin.
func RefreshItem(depth int) []Line {
	return []Line{
		Sep(depth),
		Item(depth, IconRefresh+" Refresh", Refresh()),
	}
}

// Broadcast sends each canned text to the whole mesh.
func Broadcast(opts Options, depth int) []Line {
	lines := []Line{Item(depth, IconSatellite+" Broadcast")}
	for _, txt := range opts.Texts {
		lines = append(lines, Item(depth+1, txt, Run(opts.meshtastic("--sendtext", txt))))
	}
	return lines
}

// DeviceMenu holds actions against the local radio.
func DeviceMenu(opts Options, depth int) []Line {
	return []Line{
		Item(depth, IconGear+" Device"),
		Item(depth+1, "Reboot", Run(opts.meshtastic("--reboot"))),
		Item(depth+1, "Shutdown", Run(opts.meshtastic("--shutdown"))),
		Item(depth+1, "Tail logs", Run(opts.meshtastic("--noproto"))),
		Item(depth+1, "BLE Scan", Run(opts.meshtastic("--ble-scan"))),
		Item(depth+1, "json Report", Run(Action{Command: "open", Args: []string{opts.TargetURL + "/json/report"}})),
	}
}

// Debug is the heading for the diagnostic submenus.
func Debug(depth int) Line {
	return Item(depth, IconExclaim+" Debug")
}

// Environment lists the process environment sorted by name. environ is in
// os.Environ form.
func Environment(environ []string, depth int) []Line {
	sorted := append([]string(nil), environ...)
	sort.Strings(sorted)

	lines := []Line{Item(depth, "Environment")}
	for _, kv := range sorted {
		lines = append(lines, Item(depth+1, kv))
	}
	return lines
}

// ConfigMenu offers to edit the config file and lists the effective settings.
func ConfigMenu(path string, entries []string, depth int) []Line {
	lines := []Line{
		Item(depth, "Config"),
		Item(depth+1, "Edit Config File: "+path, Run(Action{Command: "vi", Args: []string{path}, Terminal: true})),
	}
	for _, e := range entries {
		lines = append(lines, Item(depth+1, e))
	}
	return lines
}

// VersionInfo is shown under Debug > Versions.
type VersionInfo struct {
	App        string
	Go         string
	Meshtastic string
}

// Versions lists component versions.
func Versions(v VersionInfo, depth int) []Line {
	meshtastic := v.Meshtastic
	if meshtastic == "" {
		meshtastic = "unknown"
	}
	return []Line{
		Item(depth, "Versions"),
		Item(depth+1, "Meshtastic Menubar: "+v.App),
		Item(depth+1, "Go: "+v.Go),
		Item(depth+1, "Meshtastic: "+meshtastic),
	}
}

// Help explains the status colours.
func Help(depth int) []Line {
	d := depth + 1
	return []Line{
		Sep(depth),
		Item(depth, IconQuestion+" Help"),
		Item(d, "🟢 Green nodes have been heard in past hour"),
		Item(d, "🟡 Yellow nodes three hours"),
		Item(d, "🟠 Orange 12 hours"),
		Item(d, "🔴 Red past three days"),
		Item(d, "🟣 Purple heard in past seven days"),
		Item(d, "🔵 Blue nodes are ice cold, we haven't heard from them in over a week"),
		Item(d, IconBlack+" Black nodes were partially received without timestamp"),
		Sep(d),
		Item(d, IconBooks+" RTFM", Href(RepoURL)),
	}
}

// Footer shows the refresh interval and when this render ran.
func Footer(interval int, now time.Time) []Line {
	return []Line{
		Item(0, fmt.Sprintf("Every: %dm Last Run:", interval)),
		Item(0, now.Format(DateTimeLayout)),
		Sep(0),
	}
}

// NoDevice replaces the node list when nothing could be shown.
func NoDevice(err error) []Line {
	reason := "No nodes reported"
	if err != nil {
		reason = errors.OneLine(err)
	}
	return []Line{
		Item(0, IconPolice+" No Device or Nodes!"),
		Item(0, reason),
	}
}

// NodesCount heads the node list.
func NodesCount(n int) []Line {
	return []Line{
		Sep(0),
		Item(0, fmt.Sprintf("Nodes: %d", n)),
	}
}

// LogErrors reports sink failures without failing the render.
func LogErrors(errs []error) []Line {
	if len(errs) == 0 {
		return nil
	}
	lines := []Line{Item(0, IconExclaim+" Log errors")}
	for _, err := range errs {
		lines = append(lines, Item(1, errors.OneLine(err)))
	}
	return lines
}

// Runtime shows how long the render took.
func Runtime(d time.Duration) Line {
	return Item(0, "Runtime: "+d.Round(time.Millisecond).String())
}

// Diagnostic spells out an early failure (no connection mode, missing
// serial device) as plain lines.
func Diagnostic(err error) []Line {
	var mmErr *errors.Error
	if !errors.As(err, &mmErr) {
		return []Line{Item(0, errors.OneLine(err))}
	}
	lines := []Line{Item(0, mmErr.Message)}
	if mmErr.Suggestion != "" {
		lines = append(lines, Item(0, strings.Join(strings.Fields(mmErr.Suggestion), " ")))
	}
	return lines
}
