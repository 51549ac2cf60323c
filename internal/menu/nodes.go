package menu

import (
	"fmt"
	"strconv"
	"time"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/node"
)

// None is shown for a field missing from a reported sub-record.
const None = "None"

// DateTimeLayout formats timestamps in the menu.
const DateTimeLayout = "2006-01-02 15:04:05"

// MapLink is an external map service deep link. URL is a format string
// taking latitude then longitude.
type MapLink struct {
	Name string
	URL  string
}

// MapLinks are listed under "Open In..." for nodes with a position.
var MapLinks = []MapLink{
	{"Open Street Maps", "https://www.openstreetmap.org/?mlat=%s&mlon=%s"},
	{"Apple Maps", "https://maps.apple.com/map?ll=%s,%s"},
	{"Waze", "https://www.waze.com/ul?ll=%s%%2C%s&navigate=yes&zoom=17"},
	{"Google Maps", "https://www.google.com/maps/search/?api=1&query=%s%%2C%s"},
	{"Google Directions", "https://www.google.com/maps/dir/?api=1&origin=&destination=%s%%2C%s&travelmode=walking"},
	// r is half a mile in meters
	{"Free Map Tools", "https://www.freemaptools.com/radius-around-point.htm?lat=%s&lng=%s&r=804.67"},
	{"Bing Maps", "https://bing.com/maps/default.aspx?cp=%s~%s&lvl=14"},
}

// Options are the render inputs taken from config.
type Options struct {
	Flavor    Flavor
	TargetURL string
	FontMono  string
	// Bin and Transport form the meshtastic invocation used by actions,
	// e.g. "meshtastic" and ["--host", "meshtastic.local"].
	Bin            string
	Transport      []string
	TelemetryTypes []string
	Texts          []string
	// TracerouteLog is where traceroute output is tee'd. Empty disables it.
	TracerouteLog string
	Location      *time.Location
}

// OptionsFromConfig builds render options for cfg and flavor f.
func OptionsFromConfig(cfg *config.Config, f Flavor) Options {
	return Options{
		Flavor:         f,
		TargetURL:      cfg.TargetURL(),
		FontMono:       cfg.FontMono,
		Bin:            cfg.MeshtasticBin,
		Transport:      cfg.TransportArgs(),
		TelemetryTypes: cfg.TelemetryTypes,
		Texts:          cfg.Texts,
		TracerouteLog:  cfg.LogPath(cfg.LogTracerouteLog),
		Location:       time.Local,
	}
}

func (o Options) loc() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// meshtastic builds an action running the meshtastic tool against the
// configured radio.
func (o Options) meshtastic(args ...string) Action {
	full := make([]string, 0, len(o.Transport)+len(args))
	full = append(full, o.Transport...)
	full = append(full, args...)
	return Action{Command: o.Bin, Args: full, Terminal: true}
}

// RenderNodes renders every node in order. The first id is the local radio
// and gets the mesh/hash markers instead of freshness and hop icons. now is
// captured once by the caller so all ages in a render agree.
func RenderNodes(t *node.Table, order []string, now time.Time, opts Options) []Line {
	var lines []Line
	for i, id := range order {
		r := t.Get(id)
		if r == nil {
			continue
		}
		lines = append(lines, renderNode(r, i == 0, now, opts)...)
	}
	return lines
}

func renderNode(r *node.Record, self bool, now time.Time, opts Options) []Line {
	fresh := node.Classify(r.LastHeard, now)

	status, hops := StatusIcon(fresh.Category), HopIcon(r.HopsAway)
	if self {
		status, hops = IconGlobeMesh, IconHash
	}

	lines := []Line{
		Item(0, fmt.Sprintf("%s %s %s %s", status, r.ID, hops, optString(r.ShortName())), Font(opts.FontMono)),
	}
	lines = append(lines, heardSection(r, fresh, opts)...)
	if r.User != nil {
		lines = append(lines, userSection(r.User, opts)...)
	}
	if r.DeviceMetrics != nil {
		lines = append(lines, deviceSection(r.DeviceMetrics, opts)...)
	}
	if r.Position != nil {
		lines = append(lines, positionSection(r.Position, opts)...)
	}
	lines = append(lines, commsSection(r.ID, opts)...)
	return lines
}

func heardSection(r *node.Record, f node.Freshness, opts Options) []Line {
	href := Href(opts.TargetURL)
	seconds, heardAt := None, None
	if f.Known {
		seconds = strconv.FormatInt(f.TotalSeconds, 10)
		heardAt = f.HeardAt.In(opts.loc()).Format(DateTimeLayout)
	}

	hopsAway := None
	if r.HopsAway != nil {
		hopsAway = strconv.Itoa(*r.HopsAway)
	}

	return []Line{
		Item(1, IconSatDish+" Heard"),
		Item(1, "SNR: "+optFloat(r.SNR), href),
		Item(1, "Hops away: "+hopsAway, href),
		Item(1, "Last: "+f.Age(), href),
		Item(1, "Seconds: "+seconds, href),
		Item(1, "DT: "+heardAt, href),
	}
}

func userSection(u *node.User, opts Options) []Line {
	href := Href(opts.TargetURL)
	return []Line{
		Sep(1),
		Item(1, IconTicket+" User"),
		Item(1, "Name: "+optString(u.LongName), href),
		Item(1, "Short: "+optString(u.ShortName), href),
		Item(1, "Model: "+optString(u.HWModel), href),
		Item(1, "Role: "+optString(u.Role), href),
		Item(1, "PK: "+optString(u.PublicKey), href),
	}
}

func deviceSection(m *node.DeviceMetrics, opts Options) []Line {
	href := Href(opts.TargetURL)

	battery := None
	if m.BatteryLevel != nil {
		battery = formatFloat(*m.BatteryLevel) + "%"
	}
	uptime, uptimeSeconds := None, None
	if m.UptimeSeconds != nil {
		uptime = node.FormatDHMS(*m.UptimeSeconds)
		uptimeSeconds = strconv.FormatInt(*m.UptimeSeconds, 10)
	}

	return []Line{
		Sep(1),
		Item(1, IconPager+" Device"),
		Item(1, "Battery: "+battery, href),
		Item(1, "Voltage: "+optFloat(m.Voltage), href),
		Item(1, "Channel Util: "+optFloat(m.ChannelUtilization), href),
		Item(1, "Air Util: "+optFloat(m.AirUtilization), href),
		Item(1, "Uptime: "+uptime, href),
		Item(1, "Seconds: "+uptimeSeconds, href),
	}
}

func positionSection(p *node.Position, opts Options) []Line {
	href := Href(opts.TargetURL)
	lat, lon := optFloat(p.Latitude), optFloat(p.Longitude)

	lines := []Line{
		Sep(1),
		Item(1, IconGlobeAmerica+" Position"),
		Item(1, "Latitude: "+lat, href),
		Item(1, "Longitude: "+lon, href),
		Item(1, "Altitude: "+optFloat(p.Altitude), href),
		Item(1, "Source: "+optString(p.LocationSource), href),
	}
	if p.Time != nil && *p.Time != 0 {
		ts := time.Unix(*p.Time, 0).In(opts.loc()).Format(DateTimeLayout)
		lines = append(lines, Item(1, "Time: "+ts, href))
	}

	// Links need both coordinates to point anywhere useful.
	if p.Latitude == nil || p.Longitude == nil {
		return lines
	}
	lines = append(lines, Item(1, "Open In..."))
	for _, link := range MapLinks {
		lines = append(lines, Item(2, link.Name, Href(fmt.Sprintf(link.URL, lat, lon))))
	}
	return lines
}

func commsSection(id string, opts Options) []Line {
	dest := opts.Flavor.EscapeID(id)

	traceroute := opts.meshtastic("--traceroute", dest)
	traceroute.Tee = opts.TracerouteLog

	lines := []Line{
		Sep(1),
		Item(1, IconSatellite+" Comms"),
		Item(1, "Traceroute", Run(traceroute)),
		Item(1, "Request"),
		Item(2, "Request position", Run(opts.meshtastic("--request-position", "--dest", dest))),
		Item(2, "Telemetry"),
	}
	for _, kind := range opts.TelemetryTypes {
		lines = append(lines, Item(3, kind, Run(opts.meshtastic("--request-telemetry", kind, "--dest", dest))))
	}

	lines = append(lines, Item(1, "Send text"))
	for _, txt := range opts.Texts {
		lines = append(lines, Item(2, txt, Run(opts.meshtastic("--sendtext", txt, "--dest", dest))))
	}
	return lines
}

func optString(s *string) string {
	if s == nil {
		return None
	}
	return *s
}

func optFloat(f *float64) string {
	if f == nil {
		return None
	}
	return formatFloat(*f)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
