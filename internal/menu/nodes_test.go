package menu

import (
	"strings"
	"testing"

	"github.com/elwarren/meshtastic-menubar/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workedExample() *node.Table {
	t := node.NewTable()
	t.Add(&node.Record{ID: "!aaa", LastHeard: i64(testNow.Unix()), User: &node.User{ShortName: str("AAA")}})
	t.Add(&node.Record{ID: "!bbb", LastHeard: i64(testNow.Unix() - 90000), HopsAway: intp(2)})
	return t
}

func headers(lines []string) []string {
	var out []string
	for _, l := range lines {
		if !strings.HasPrefix(l, "--") && l != "---" {
			out = append(out, l)
		}
	}
	return out
}

func TestRenderNodes_WorkedExample(t *testing.T) {
	table := workedExample()
	order := node.Order(table)
	require.Equal(t, []string{"!aaa", "!bbb"}, order)

	out := render(t, RenderNodes(table, order, testNow, testOptions(t, "swiftbar")), "swiftbar")

	assert.Equal(t, []string{
		"🌐 !aaa #️⃣ AAA | font=Menlo-Regular",
		"🔴 !bbb 2️⃣ None | font=Menlo-Regular",
	}, headers(out))

	assert.Contains(t, out, "--Last: 1d 1h 0m 0s | href=http://radio.local")
	assert.Contains(t, out, "--Seconds: 90000 | href=http://radio.local")
	assert.Contains(t, out, "--DT: 2025-03-11 16:20:00 | href=http://radio.local")
	assert.Contains(t, out, "--Last: 0d 0h 0m 0s | href=http://radio.local")
}

func TestRenderNodes_SelfFirstEvenWhenOldest(t *testing.T) {
	table := node.NewTable()
	table.Add(&node.Record{ID: "!self", LastHeard: i64(testNow.Unix() - 30*86400)})
	table.Add(&node.Record{ID: "!peer", LastHeard: i64(testNow.Unix() - 60), HopsAway: intp(0)})

	out := render(t, RenderNodes(table, node.Order(table), testNow, testOptions(t, "xbar")), "xbar")

	assert.Equal(t, []string{
		"🌐 !self #️⃣ None | font=Menlo-Regular",
		"🟢 !peer 0️⃣ None | font=Menlo-Regular",
	}, headers(out))
}

func TestRenderNodes_BareNodeHasNoEmptySections(t *testing.T) {
	table := node.NewTable()
	table.Add(&node.Record{ID: "!bare"})

	out := render(t, RenderNodes(table, node.Order(table), testNow, testOptions(t, "swiftbar")), "swiftbar")

	joined := strings.Join(out, "\n")
	assert.NotContains(t, joined, "User")
	assert.NotContains(t, joined, "Device")
	assert.NotContains(t, joined, "Position")
	assert.Contains(t, joined, "--📡 Heard")
	assert.Contains(t, joined, "--🛰️ Comms")

	var seps int
	for _, l := range out {
		if l == "-----" {
			seps++
		}
	}
	assert.Equal(t, 1, seps, "only Comms is preceded by a divider")

	assert.Contains(t, out, "--SNR: None | href=http://radio.local")
	assert.Contains(t, out, "--Hops away: None | href=http://radio.local")
	assert.Contains(t, out, "--Last: Not Reported | href=http://radio.local")
	assert.Contains(t, out, "--Seconds: None | href=http://radio.local")
	assert.Contains(t, out, "--DT: None | href=http://radio.local")
}

func TestRenderNodes_FullNode(t *testing.T) {
	table := node.NewTable()
	table.Add(&node.Record{ID: "!self"})
	table.Add(&node.Record{
		ID:        "!full",
		LastHeard: i64(testNow.Unix() - 7200),
		SNR:       f64(6.25),
		HopsAway:  intp(1),
		User:      &node.User{LongName: str("Full Node"), ShortName: str("FULL"), HWModel: str("TBEAM")},
		DeviceMetrics: &node.DeviceMetrics{
			BatteryLevel:  f64(87),
			Voltage:       f64(4.1),
			UptimeSeconds: i64(93784),
		},
		Position: &node.Position{
			Latitude:  f64(45.5),
			Longitude: f64(-122.6),
			Time:      i64(testNow.Unix()),
		},
	})

	out := render(t, RenderNodes(table, node.Order(table), testNow, testOptions(t, "swiftbar")), "swiftbar")

	assert.Contains(t, out, "🟡 !full 1️⃣ FULL | font=Menlo-Regular")
	assert.Contains(t, out, "--SNR: 6.25 | href=http://radio.local")
	assert.Contains(t, out, "--Name: Full Node | href=http://radio.local")
	assert.Contains(t, out, "--Role: None | href=http://radio.local")
	assert.Contains(t, out, "--Battery: 87% | href=http://radio.local")
	assert.Contains(t, out, "--Channel Util: None | href=http://radio.local")
	assert.Contains(t, out, "--Uptime: 1d 2h 3m 4s | href=http://radio.local")
	assert.Contains(t, out, "--Seconds: 93784 | href=http://radio.local")
	assert.Contains(t, out, "--Latitude: 45.5 | href=http://radio.local")
	assert.Contains(t, out, "--Altitude: None | href=http://radio.local")
	assert.Contains(t, out, "--Time: 2025-03-12 17:20:00 | href=http://radio.local")
	assert.Contains(t, out, "--Open In...")
	assert.Contains(t, out, "----Open Street Maps | href=https://www.openstreetmap.org/?mlat=45.5&mlon=-122.6")
	assert.Contains(t, out, "----Waze | href=https://www.waze.com/ul?ll=45.5%2C-122.6&navigate=yes&zoom=17")
	assert.Contains(t, out, "----Bing Maps | href=https://bing.com/maps/default.aspx?cp=45.5~-122.6&lvl=14")

	var links int
	for _, l := range out {
		if strings.HasPrefix(l, "----") && strings.Contains(l, "href=") {
			links++
		}
	}
	assert.Equal(t, len(MapLinks), links)

	// Sections in fixed order, after the !full header
	start := -1
	for i, l := range out {
		if strings.HasPrefix(l, "🟡 !full") {
			start = i
		}
	}
	require.NotEqual(t, -1, start)
	idx := func(s string) int {
		for i, l := range out[start:] {
			if l == s {
				return i
			}
		}
		return -1
	}
	heard, user, device, pos, comms := idx("--📡 Heard"), idx("--🎫 User"), idx("--📟 Device"), idx("--🌎 Position"), idx("--🛰️ Comms")
	require.NotEqual(t, -1, heard)
	assert.Less(t, heard, user)
	assert.Less(t, user, device)
	assert.Less(t, device, pos)
	assert.Less(t, pos, comms)
}

func TestRenderNodes_PositionWithoutCoordinatesHasNoLinks(t *testing.T) {
	table := node.NewTable()
	table.Add(&node.Record{ID: "!p", Position: &node.Position{Altitude: f64(12)}})

	out := render(t, RenderNodes(table, node.Order(table), testNow, testOptions(t, "swiftbar")), "swiftbar")

	assert.Contains(t, out, "--🌎 Position")
	assert.Contains(t, out, "--Latitude: None | href=http://radio.local")
	assert.NotContains(t, out, "--Open In...")
}

func TestRenderNodes_CommsEscapesPerFlavor(t *testing.T) {
	table := node.NewTable()
	table.Add(&node.Record{ID: "!a1b2c3d4"})

	xbar := render(t, RenderNodes(table, node.Order(table), testNow, testOptions(t, "xbar")), "xbar")
	assert.Contains(t, xbar,
		`----Request position | shell=meshtastic | terminal=true | param1=--host | param2=radio.local | param3=--request-position | param4=--dest | param5=\!a1b2c3d4`)
	assert.Contains(t, xbar,
		`--Traceroute | shell=meshtastic | terminal=true | param1=--host | param2=radio.local | param3=--traceroute | param4=\!a1b2c3d4 | param5="|" | param6="tee /logs/tr.log"`)
	// The header keeps the raw id
	assert.Equal(t, "🌐 !a1b2c3d4 #️⃣ None | font=Menlo-Regular", xbar[0])

	swift := render(t, RenderNodes(table, node.Order(table), testNow, testOptions(t, "swiftbar")), "swiftbar")
	assert.Contains(t, swift,
		`----Howdy | shell=meshtastic terminal=true param1=--host param2=radio.local param3=--sendtext param4=Howdy param5=--dest param6=!a1b2c3d4`)
	assert.Contains(t, swift,
		`------battery | shell=meshtastic terminal=true param1=--host param2=radio.local param3=--request-telemetry param4=battery param5=--dest param6=!a1b2c3d4`)
}

func TestRenderNodes_NoTracerouteLog(t *testing.T) {
	table := node.NewTable()
	table.Add(&node.Record{ID: "abc"})
	opts := testOptions(t, "swiftbar")
	opts.TracerouteLog = ""

	out := render(t, RenderNodes(table, node.Order(table), testNow, opts), "swiftbar")
	assert.Contains(t, out, "--Traceroute | shell=meshtastic terminal=true param1=--host param2=radio.local param3=--traceroute param4=abc")
}

func TestRenderNodes_SkipsUnknownIDs(t *testing.T) {
	table := workedExample()
	lines := RenderNodes(table, []string{"!aaa", "!ghost"}, testNow, testOptions(t, "xbar"))

	for _, l := range lines {
		assert.NotContains(t, l.Text, "!ghost")
	}
}
