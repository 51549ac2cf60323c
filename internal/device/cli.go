package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/exec"
	"github.com/elwarren/meshtastic-menubar/internal/logger"
	"github.com/elwarren/meshtastic-menubar/internal/node"
)

// NodesMarker precedes the node table in `meshtastic --info` output.
const NodesMarker = "Nodes in mesh: "

// CLISource talks to the radio by running the meshtastic tool.
type CLISource struct {
	Bin        string
	Connection string
	// Args are the transport flag and target, e.g. --host meshtastic.local.
	Args       []string
	SerialPort string
	Timeout    time.Duration

	Runner exec.Runner
	Log    logger.Logger
}

// NewCLISource builds a CLISource from the loaded config.
func NewCLISource(cfg *config.Config, runner exec.Runner) *CLISource {
	if runner == nil {
		runner = exec.NewLocalRunner()
	}
	return &CLISource{
		Bin:        cfg.MeshtasticBin,
		Connection: cfg.Connection,
		Args:       cfg.TransportArgs(),
		SerialPort: cfg.SerialPort,
		Timeout:    cfg.FetchTimeout,
		Runner:     runner,
		Log:        logger.Default(),
	}
}

// Describe implements Source.
func (s *CLISource) Describe() string {
	return strings.Join(append([]string{s.Bin}, s.Args...), " ")
}

// Preflight reports the connection problems that can be detected without
// talking to the radio: an unknown connection mode or a missing serial
// device.
func (s *CLISource) Preflight() error {
	switch s.Connection {
	case config.ConnectionWifi, config.ConnectionBLE:
		return nil
	case config.ConnectionSerial:
		if s.SerialPort == "" {
			return errors.New(errors.ErrDevice,
				"Serial device does not exist at: "+s.SerialPort,
				"Set serial_port to the radio's device path, e.g. /dev/cu.usbserial-0001")
		}
		if _, err := os.Stat(s.SerialPort); err != nil {
			return errors.New(errors.ErrDevice,
				"Serial device does not exist at: "+s.SerialPort,
				"Plug the radio in, or list devices with: ls /dev/cu.*")
		}
		return nil
	}
	return errors.New(errors.ErrConnection,
		"No connection method set",
		"Choose wifi, ble, or serial")
}

// FetchNodes runs `<bin> <p1> <p2> --info` and parses the node table.
func (s *CLISource) FetchNodes(ctx context.Context) (*node.Table, error) {
	if err := s.Preflight(); err != nil {
		return nil, err
	}

	args := append(append([]string{}, s.Args...), "--info")
	stdout, err := s.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	table, err := ExtractNodes(stdout)
	if err != nil {
		return nil, err
	}
	s.Log.Debug("fetched %d nodes via %s", table.Len(), s.Describe())
	return table, nil
}

// Version returns the meshtastic tool's version string.
func (s *CLISource) Version(ctx context.Context) (string, error) {
	stdout, err := s.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}

func (s *CLISource) run(ctx context.Context, args ...string) ([]byte, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	s.Log.Debug("running %s %s", s.Bin, strings.Join(args, " "))
	started := time.Now()
	stdout, stderr, exitCode, err := s.Runner.Capture(ctx, s.Bin, args...)
	s.Log.Debug("%s exited %d after %s", s.Bin, exitCode, time.Since(started).Round(time.Millisecond))
	if err != nil {
		return nil, err
	}

	if notFound := exec.HandleExecError(s.Bin, string(stderr), exitCode); notFound != nil {
		return nil, notFound
	}

	if exitCode != 0 {
		detail := lastLine(stderr)
		if detail == "" {
			detail = lastLine(stdout)
		}
		return nil, errors.WrapWithCode(fmt.Errorf("exit status %d: %s", exitCode, detail),
			errors.ErrTransport,
			"Couldn't connect to the radio",
			"Check the device is powered on and reachable via "+s.Describe())
	}

	return stdout, nil
}

// ExtractNodes finds the node table in `meshtastic --info` output and parses
// it. Text before the marker and after the closing brace is ignored.
func ExtractNodes(output []byte) (*node.Table, error) {
	idx := bytes.Index(output, []byte(NodesMarker))
	if idx < 0 {
		return nil, errors.New(errors.ErrTransport,
			"No node table in meshtastic output",
			"Run the meshtastic tool with --info by hand to see what the radio returned")
	}

	var raw json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(output[idx+len(NodesMarker):]))
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Couldn't read the node table",
			"Upgrade the meshtastic tool; older releases print a different format")
	}

	table, err := node.ParseTable(raw)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Couldn't read the node table",
			"Upgrade the meshtastic tool; older releases print a different format")
	}
	return table, nil
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
