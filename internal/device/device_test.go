package device

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoOutput = `Connected to radio
Owner: Base Station (BASE)
My info: { "myNodeNum": 1 }
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

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	stdout   string
	stderr   string
	exitCode int
	err      error
	calls    []call
	sawCtx   context.Context
}

func (f *fakeRunner) Capture(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	f.sawCtx = ctx
	return []byte(f.stdout), []byte(f.stderr), f.exitCode, f.err
}

func wifiSource(r *fakeRunner) *CLISource {
	cfg := config.DefaultConfig()
	cfg.Connection = config.ConnectionWifi
	cfg.MeshtasticP1 = "--host"
	cfg.MeshtasticP2 = "radio.local"
	src := NewCLISource(cfg, r)
	src.Log = logger.Noop()
	return src
}

func TestCLISource_FetchNodes(t *testing.T) {
	r := &fakeRunner{stdout: infoOutput}
	src := wifiSource(r)

	table, err := src.FetchNodes(context.Background())
	require.NoError(t, err)

	require.Len(t, r.calls, 1)
	assert.Equal(t, "meshtastic", r.calls[0].name)
	assert.Equal(t, []string{"--host", "radio.local", "--info"}, r.calls[0].args)

	assert.Equal(t, []string{"!aaa11111", "!bbb22222"}, table.IDs)
	assert.Equal(t, "!aaa11111", table.Self())
	require.NotNil(t, table.Get("!bbb22222").HopsAway)
	assert.Equal(t, 1, *table.Get("!bbb22222").HopsAway)
}

func TestCLISource_UnknownConnection(t *testing.T) {
	r := &fakeRunner{stdout: infoOutput}
	src := wifiSource(r)
	src.Connection = "pigeon"

	_, err := src.FetchNodes(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConnection))
	assert.Contains(t, err.Error(), "No connection method set")
	assert.Empty(t, r.calls, "the tool must not run without a connection mode")
}

func TestCLISource_MissingSerialDevice(t *testing.T) {
	r := &fakeRunner{stdout: infoOutput}
	src := wifiSource(r)
	src.Connection = config.ConnectionSerial
	src.SerialPort = filepath.Join(t.TempDir(), "cu.usbserial-0001")

	_, err := src.FetchNodes(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDevice))
	assert.Contains(t, err.Error(), "Serial device does not exist at: "+src.SerialPort)
	assert.Empty(t, r.calls)
}

func TestCLISource_SerialDevicePresent(t *testing.T) {
	port := filepath.Join(t.TempDir(), "cu.usbserial-0001")
	require.NoError(t, os.WriteFile(port, nil, 0644))

	r := &fakeRunner{stdout: infoOutput}
	src := wifiSource(r)
	src.Connection = config.ConnectionSerial
	src.SerialPort = port
	src.Args = []string{"--port", port}

	table, err := src.FetchNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"--port", port, "--info"}, r.calls[0].args)
}

func TestCLISource_TransportFailure(t *testing.T) {
	r := &fakeRunner{
		stderr:   "Traceback...\nOSError: [Errno 8] nodename nor servname provided, or not known\n",
		exitCode: 1,
	}
	src := wifiSource(r)

	_, err := src.FetchNodes(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
	assert.Contains(t, errors.OneLine(err), "nodename nor servname provided")
}

func TestCLISource_BinaryNotFound(t *testing.T) {
	r := &fakeRunner{exitCode: 127}
	src := wifiSource(r)
	src.Bin = "meshtastic-missing"

	_, err := src.FetchNodes(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
	assert.Contains(t, err.Error(), "'meshtastic-missing' not found")
}

func TestCLISource_NoMarker(t *testing.T) {
	r := &fakeRunner{stdout: "Connected to radio\nMy info: {}\n"}
	src := wifiSource(r)

	_, err := src.FetchNodes(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
}

func TestCLISource_Timeout(t *testing.T) {
	r := &fakeRunner{stdout: infoOutput}
	src := wifiSource(r)
	src.Timeout = 30 * time.Second

	_, err := src.FetchNodes(context.Background())
	require.NoError(t, err)

	deadline, ok := r.sawCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, 5*time.Second)
}

func TestCLISource_Version(t *testing.T) {
	r := &fakeRunner{stdout: "2.5.4\n"}
	src := wifiSource(r)

	v, err := src.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.5.4", v)
	assert.Equal(t, []string{"--version"}, r.calls[0].args)
}

func TestExtractNodes_Malformed(t *testing.T) {
	_, err := ExtractNodes([]byte("Nodes in mesh: {\"!a\": "))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()

	t.Run("bare node map", func(t *testing.T) {
		path := filepath.Join(dir, "nodes.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"!b": {"lastHeard": 1}, "!a": {}}`), 0644))

		table, err := (&FileSource{Path: path}).FetchNodes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"!b", "!a"}, table.IDs)
	})

	t.Run("jsonl log uses last line", func(t *testing.T) {
		path := filepath.Join(dir, "nodes.jsonl")
		content := `{"timestamp": "2025-03-12 10:00:00.000000", "nodes": {"!old": {}}}
{"timestamp": "2025-03-12 10:05:00.000000", "nodes": {"!new": {}, "!two": {}}}

`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		table, err := (&FileSource{Path: path}).FetchNodes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"!new", "!two"}, table.IDs)
	})

	t.Run("captured info output", func(t *testing.T) {
		path := filepath.Join(dir, "info.txt")
		require.NoError(t, os.WriteFile(path, []byte(infoOutput), 0644))

		table, err := (&FileSource{Path: path}).FetchNodes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := (&FileSource{Path: filepath.Join(dir, "nope.json")}).FetchNodes(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrDevice))
	})

	t.Run("not json", func(t *testing.T) {
		path := filepath.Join(dir, "junk.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

		_, err := (&FileSource{Path: path}).FetchNodes(context.Background())
		require.Error(t, err)
	})
}

func TestNewSource(t *testing.T) {
	cfg := config.DefaultConfig()

	src := NewSource(cfg, &fakeRunner{}, "")
	assert.IsType(t, &CLISource{}, src)
	assert.Equal(t, "meshtastic --host meshtastic.local", src.Describe())

	src = NewSource(cfg, &fakeRunner{}, "/tmp/nodes.json")
	assert.IsType(t, &FileSource{}, src)
	assert.Equal(t, "file /tmp/nodes.json", src.Describe())
}

func TestCLISource_FindsToolOutsidePATH(t *testing.T) {
	if _, err := os.Stat("/bin/cat"); err != nil {
		t.Skip("needs /bin/cat")
	}

	home := t.TempDir()
	binDir := filepath.Join(home, ".local", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))

	info := filepath.Join(home, "info.txt")
	require.NoError(t, os.WriteFile(info, []byte(infoOutput), 0644))
	script := "#!/bin/sh\nexec /bin/cat " + info + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "meshtastic"), []byte(script), 0755))

	// Menu-bar hosts start plugins with roughly this PATH
	t.Setenv("HOME", home)
	t.Setenv("PATH", "/usr/bin:/bin")

	cfg := config.DefaultConfig()
	src := NewCLISource(cfg, nil)
	src.Log = logger.Noop()

	table, err := src.FetchNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"!aaa11111", "!bbb22222"}, table.IDs)
}
