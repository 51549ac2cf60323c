package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elwarren/meshtastic-menubar/internal/discover"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/exec"
)

const infoOutput = `Connected to radio
Owner: Base Station (BASE)
Nodes in mesh: {
  "!aaa11111": {
    "user": {"shortName": "AAA", "longName": "Alpha"},
    "lastHeard": 1741800000
  },
  "!bbb22222": {
    "user": {"shortName": "BBB"},
    "lastHeard": 1741710000,
    "hopsAway": 1
  }
}

Preferences: { "bluetooth": { "enabled": true } }
`

var testNow = time.Unix(1_741_800_000, 0)

type fakeRunner struct {
	mu       sync.Mutex
	info     string
	stderr   string
	exitCode int
	version  string
	calls    [][]string
}

func (f *fakeRunner) Capture(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	for _, a := range args {
		if a == "--version" {
			return []byte(f.version + "\n"), nil, 0, nil
		}
	}
	return []byte(f.info), []byte(f.stderr), f.exitCode, nil
}

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	now = func() time.Time { return testNow }
	environ = func() []string { return []string{"PATH=/usr/bin", "HOME=/home/mesh"} }
	newBrowser = func() discover.Browser { return &stubBrowser{} }
	os.Exit(m.Run())
}

func resetFlags() {
	cfgFile, flavorFlag, fromFlag, statusFlag = "", "", "", ""
	debugFlag, verbose = false, false
	previewRaw = false
	nodesFormat, nodesRaw = "", false
	doctorJSON, doctorOffline = false, false
	initForce, initNonInteractive, initConnection, initTarget = false, false, "", ""
	versionShort = false
	watchEvery, watchNoLogs = 0, false
	discoverJSON, discoverTimeout = false, discover.DefaultTimeout
}

type stubBrowser struct {
	radios []discover.Radio
	err    error
}

func (b *stubBrowser) Browse(ctx context.Context) ([]discover.Radio, error) {
	return b.radios, b.err
}

func useBrowser(t *testing.T, b discover.Browser) {
	t.Helper()
	prev := newBrowser
	newBrowser = func() discover.Browser { return b }
	t.Cleanup(func() { newBrowser = prev })
}

// useRunner swaps the runner used by commands for the duration of a test.
func useRunner(t *testing.T, r exec.Runner) {
	t.Helper()
	prev := newRunner
	newRunner = func() exec.Runner { return r }
	t.Cleanup(func() { newRunner = prev })
}

// writeConfig writes a config into a temp dir with logs going to the same
// dir and the wifi report disabled.
func writeConfig(t *testing.T, extra string) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "config.yml")
	content := "log_dir: " + dir + "\nlog_wifi_report: \"\"\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path, dir
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMenu_FromRadio(t *testing.T) {
	runner := &fakeRunner{info: infoOutput, version: "2.5.0"}
	useRunner(t, runner)
	path, dir := writeConfig(t, "wifi_host: radio.local\n")

	out, err := executeCommand(t, "--config", path)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], " | templateImage="))
	assert.Contains(t, out, "\nNodes: 2\n")
	assert.Contains(t, out, "Meshtastic: 2.5.0")
	assert.Contains(t, out, "!aaa11111")
	assert.Contains(t, out, "Runtime: 0s")
	assert.Less(t, strings.Index(out, "!aaa11111"), strings.Index(out, "!bbb22222"))

	runner.mu.Lock()
	assert.Contains(t, runner.calls, []string{"meshtastic", "--host", "radio.local", "--info"})
	runner.mu.Unlock()

	_, statErr := os.Stat(filepath.Join(dir, "meshtastic-menubar-nodes.jsonl"))
	assert.NoError(t, statErr, "node log should be written")
	_, statErr = os.Stat(filepath.Join(dir, "meshtastic-menubar-nodes.csv"))
	assert.NoError(t, statErr)
}

func TestMenu_FetchFailureStillExitsZero(t *testing.T) {
	useRunner(t, &fakeRunner{exitCode: 1, stderr: "Timed out waiting for connection completion"})
	path, dir := writeConfig(t, "")

	out, err := executeCommand(t, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No Device or Nodes!")
	assert.Contains(t, out, "Couldn't connect to the radio")
	assert.NotContains(t, out, "Nodes: ")

	_, statErr := os.Stat(filepath.Join(dir, "meshtastic-menubar-nodes.jsonl"))
	assert.True(t, os.IsNotExist(statErr), "no log without nodes")
}

func TestMenu_NoConnection(t *testing.T) {
	runner := &fakeRunner{info: infoOutput}
	useRunner(t, runner)
	path, _ := writeConfig(t, "connection: pigeon\n")

	out, err := executeCommand(t, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "\nNo connection method set\n")
	assert.Contains(t, out, "\nChoose wifi, ble, or serial\n")
	assert.Contains(t, out, "\n--Environment\n")
	assert.Contains(t, out, "\n----HOME=/home/mesh\n")
	assert.Empty(t, runner.calls, "the radio is never asked")
}

func TestMenu_MissingSerialDevice(t *testing.T) {
	useRunner(t, &fakeRunner{info: infoOutput})
	path, _ := writeConfig(t, "connection: serial\nserial_port: "+filepath.Join(t.TempDir(), "cu.none")+"\n")

	out, err := executeCommand(t, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Serial device does not exist at: ")
	assert.NotContains(t, out, "Nodes: ")
}

func TestMenu_InvalidConfigRendersDiagnostic(t *testing.T) {
	useRunner(t, &fakeRunner{info: infoOutput})
	path, _ := writeConfig(t, "interval: 0\n")

	out, err := executeCommand(t, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Interval must be at least 1 minute")
}

func TestMenu_FlavorFlag(t *testing.T) {
	useRunner(t, &fakeRunner{info: infoOutput})
	path, _ := writeConfig(t, "")

	xbar, err := executeCommand(t, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, xbar, `param4=\!bbb22222`)

	swift, err := executeCommand(t, "--config", path, "--flavor", "SwiftBar")
	require.NoError(t, err)
	assert.Contains(t, swift, "param4=!bbb22222")
	assert.NotContains(t, swift, `\!`)
}

func TestMenu_FromFile(t *testing.T) {
	runner := &fakeRunner{}
	useRunner(t, runner)
	path, _ := writeConfig(t, "")
	saved := filepath.Join(t.TempDir(), "info.txt")
	require.NoError(t, os.WriteFile(saved, []byte(infoOutput), 0644))

	out, err := executeCommand(t, "--config", path, "--from", saved, "--status", "Mesh")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Mesh | templateImage="))
	assert.Contains(t, out, "Nodes: 2")
	assert.Contains(t, out, "Meshtastic: unknown")
	assert.Empty(t, runner.calls)
}

func TestMenu_Debug(t *testing.T) {
	useRunner(t, &fakeRunner{info: infoOutput})
	path, dir := writeConfig(t, "")

	out, err := executeCommand(t, "--config", path, "--debug")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Environment:\n{"))
	assert.Contains(t, out, `"HOME": "/home/mesh"`)
	assert.Contains(t, out, "\nNodes:\n{")
	assert.Less(t, strings.Index(out, `"!aaa11111"`), strings.Index(out, `"!bbb22222"`))
	assert.NotContains(t, out, "templateImage")

	logged, err := os.ReadFile(filepath.Join(dir, "meshtastic-menubar-nodes.jsonl"))
	require.NoError(t, err, "debug still appends the node log")
	assert.Contains(t, string(logged), `"!aaa11111"`)
	_, statErr := os.Stat(filepath.Join(dir, "meshtastic-menubar-nodes.csv"))
	assert.True(t, os.IsNotExist(statErr), "only the JSON-lines log")
}

func TestPreview(t *testing.T) {
	useRunner(t, &fakeRunner{info: infoOutput})
	path, dir := writeConfig(t, "")

	out, err := executeCommand(t, "--config", path, "preview")
	require.NoError(t, err)
	assert.Contains(t, out, "\nMeshtastic Menubar\n")
	assert.Contains(t, out, "\nNodes: 2\n")
	assert.Contains(t, out, "    Reboot ↗\n")
	assert.NotContains(t, out, "templateImage")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "preview writes no logs")

	raw, err := executeCommand(t, "--config", path, "preview", "--raw")
	require.NoError(t, err)
	assert.Contains(t, raw, "templateImage=")
}

func TestNodes_Formats(t *testing.T) {
	useRunner(t, &fakeRunner{info: infoOutput})
	path, _ := writeConfig(t, "")

	out, err := executeCommand(t, "--config", path, "nodes")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n  \"!aaa11111\""))

	out, err = executeCommand(t, "--config", path, "nodes", "--format", "csv")
	require.NoError(t, err)
	header := strings.SplitN(out, "\n", 2)[0]
	assert.Contains(t, header, "user_shortName")

	out, err = executeCommand(t, "--config", path, "nodes", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")

	_, err = executeCommand(t, "--config", path, "nodes", "--format", "xml")
	assert.Error(t, err)
}

func TestNodes_ErrorAsJSON(t *testing.T) {
	useRunner(t, &fakeRunner{exitCode: 1, stderr: "boom"})
	path, _ := writeConfig(t, "")

	out, err := executeCommand(t, "--config", path, "nodes", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, out, `"success": false`)
	assert.Contains(t, out, `"code": "TRANSPORT"`)
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2025-03-12")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "meshtastic-menubar v1.2.3\n")
	assert.Contains(t, out, "commit: abc123\n")

	out, err = executeCommand(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestFormatVersion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"dev", "dev"},
		{"1.0.0", "v1.0.0"},
		{"v2.0.0", "v2.0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in), tt.in)
	}
}

func TestCompletion(t *testing.T) {
	out, err := executeCommand(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "# bash completion for meshtastic-menubar")

	out, err = executeCommand(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef meshtastic-menubar")

	_, err = executeCommand(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestUnknownArgument(t *testing.T) {
	_, err := executeCommand(t, "frobnicate")
	assert.Error(t, err)
}

func fakeBinary(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "meshtastic")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho 2.5.0\n"), 0755))
	return bin
}

func TestDoctor_OfflineJSON(t *testing.T) {
	useRunner(t, &fakeRunner{version: "2.5.0"})
	path, _ := writeConfig(t, "meshtastic_bin: "+fakeBinary(t)+"\n")

	out, err := executeCommand(t, "--config", path, "doctor", "--offline", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"fail": 0`)
	assert.Contains(t, out, `"name": "config_valid"`)
	assert.NotContains(t, out, `"name": "radio"`)
}

func TestDoctor_FailuresExitNonZero(t *testing.T) {
	useRunner(t, &fakeRunner{})
	path, _ := writeConfig(t, "meshtastic_bin: "+filepath.Join(t.TempDir(), "missing")+"\n")

	out, err := executeCommand(t, "--config", path, "doctor", "--offline")
	require.Error(t, err)
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "Meshtastic Menubar Diagnostic Report")
	assert.Contains(t, out, "not found")
	assert.Regexp(t, `\d+ issues? found`, out)
}

func TestInit_NonInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "mm.yml")

	out, err := executeCommand(t, "--config", path, "--flavor", "SwiftBar",
		"init", "--non-interactive", "--connection", "serial", "--target", "/dev/cu.usbserial-0001")
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)
	assert.Contains(t, out, "swiftbar plugin folder")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "connection: serial")
	assert.Contains(t, string(data), "serial_port: /dev/cu.usbserial-0001")
	assert.Contains(t, string(data), "bitbar: swiftbar")

	_, err = executeCommand(t, "--config", path, "init", "--non-interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCommand(t, "--config", path, "init", "--non-interactive", "--force", "--connection", "ble")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "connection: ble")
}

func TestInit_UnknownConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mm.yml")

	_, err := executeCommand(t, "--config", path, "init", "--non-interactive", "--connection", "lora")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown connection 'lora'")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigCommands(t *testing.T) {
	path, _ := writeConfig(t, "wifi_host: radio.local\n")

	out, err := executeCommand(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	out, err = executeCommand(t, "--config", path, "config", "set", "interval", "10")
	require.NoError(t, err)
	assert.Equal(t, "interval = 10\n", out)

	out, err = executeCommand(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "interval: 10")
	assert.Contains(t, out, "wifi_host: radio.local")
}

func TestConfigSet_RollsBackInvalid(t *testing.T) {
	path, _ := writeConfig(t, "interval: 3\n")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = executeCommand(t, "--config", path, "config", "set", "interval", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was not saved")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestConfigSet_UnknownKey(t *testing.T) {
	path, _ := writeConfig(t, "")

	_, err := executeCommand(t, "--config", path, "config", "set", "colour", "blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown setting 'colour'")
}

func TestWatchOptions(t *testing.T) {
	useRunner(t, &fakeRunner{info: infoOutput})
	path, _ := writeConfig(t, "interval: 2\n")

	resetFlags()
	cfgFile = path
	opts, err := watchOptions()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, opts.Interval)
	assert.NotNil(t, opts.Save)
	assert.NotNil(t, opts.Source)

	watchEvery, watchNoLogs = 30*time.Second, true
	opts, err = watchOptions()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Interval)
	assert.Nil(t, opts.Save)

	watchEvery = time.Second
	_, err = watchOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Interval too short")
}

func TestErrorToJSON(t *testing.T) {
	assert.Nil(t, ErrorToJSON(nil))

	plain := ErrorToJSON(assert.AnError)
	assert.Equal(t, ErrCodeUnknown, plain.Code)

	structured := ErrorToJSON(errors.New(errors.ErrDevice, "gone", "plug it in"))
	assert.Equal(t, &JSONError{Code: errors.ErrDevice, Message: "gone", Suggestion: "plug it in"}, structured)
}

var baseRadio = discover.Radio{
	Instance: "Meshtastic_1a2b",
	Host:     "meshtastic.local",
	Port:     4403,
	IPv4:     []string{"192.168.1.40"},
}

func TestDiscover(t *testing.T) {
	useBrowser(t, &stubBrowser{radios: []discover.Radio{baseRadio, {Instance: "Rover", IPv4: []string{"192.168.1.41"}}}})

	out, err := executeCommand(t, "discover")
	require.NoError(t, err)
	assert.Contains(t, out, "● Meshtastic_1a2b\n  host: meshtastic.local\n  ipv4: 192.168.1.40\n")
	assert.Contains(t, out, "● Rover\n  ipv4: 192.168.1.41\n")
	assert.Contains(t, out, "config set wifi_host meshtastic.local")

	out, err = executeCommand(t, "discover", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"instance": "Meshtastic_1a2b"`)
}

func TestDiscover_NoneFound(t *testing.T) {
	useBrowser(t, &stubBrowser{})

	out, err := executeCommand(t, "discover")
	require.NoError(t, err)
	assert.Contains(t, out, "No radios announced themselves")

	out, err = executeCommand(t, "discover", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"data": []`)
}

func TestDiscover_Error(t *testing.T) {
	useBrowser(t, &stubBrowser{err: errors.New(errors.ErrDiscovery, "Couldn't start mDNS discovery", "")})

	out, err := executeCommand(t, "discover", "--json")
	require.Error(t, err)
	assert.Contains(t, out, `"code": "DISCOVERY"`)
}

func TestRadioOptions(t *testing.T) {
	opts := radioOptions([]discover.Radio{baseRadio})
	require.Len(t, opts, 2)
	assert.Equal(t, "Meshtastic_1a2b (meshtastic.local, 192.168.1.40)", opts[0].Key)
	assert.Equal(t, "meshtastic.local", opts[0].Value)
	assert.Equal(t, manualEntry, opts[1].Value)
}

func TestDoctor_OnlineWithMDNS(t *testing.T) {
	useRunner(t, &fakeRunner{info: infoOutput, version: "2.5.0"})
	useBrowser(t, &stubBrowser{radios: []discover.Radio{baseRadio}})
	path, _ := writeConfig(t, "meshtastic_bin: "+fakeBinary(t)+"\n")

	out, err := executeCommand(t, "--config", path, "doctor", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "radio"`)
	assert.Contains(t, out, `"name": "mdns"`)
	assert.Contains(t, out, "meshtastic.local announced by Meshtastic_1a2b")
}
