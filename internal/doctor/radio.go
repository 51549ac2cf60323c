package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/device"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/exec"
	"github.com/elwarren/meshtastic-menubar/internal/util"
)

// ConnectionCheck verifies the connection mode and its target.
type ConnectionCheck struct {
	Config *config.Config
}

func (c *ConnectionCheck) Name() string     { return "connection" }
func (c *ConnectionCheck) Category() string { return "RADIO" }

func (c *ConnectionCheck) Run(ctx context.Context) CheckResult {
	if !c.Config.ValidConnection() {
		return fail(fmt.Sprintf("Unknown connection method '%s'", c.Config.Connection),
			"Set connection to wifi, ble, or serial")
	}
	if strings.TrimSpace(c.Config.Target()) == "" {
		return fail("No target set for "+c.Config.Connection,
			"Set wifi_host, ble_name or serial_port for the chosen connection")
	}
	return pass(fmt.Sprintf("Connection: %s %s", c.Config.Connection, c.Config.Target()))
}

// SerialDeviceCheck verifies the serial device exists when serial is used.
type SerialDeviceCheck struct {
	Config *config.Config
}

func (c *SerialDeviceCheck) Name() string     { return "serial_device" }
func (c *SerialDeviceCheck) Category() string { return "RADIO" }

func (c *SerialDeviceCheck) Run(ctx context.Context) CheckResult {
	if c.Config.Connection != config.ConnectionSerial {
		return skip("Serial not in use")
	}
	info, err := os.Stat(c.Config.SerialPort)
	if err != nil {
		return fail("Serial device does not exist at: "+c.Config.SerialPort,
			"Plug the radio in, or list devices with: ls /dev/cu.*")
	}
	if info.Mode()&os.ModeDevice == 0 {
		return warn(c.Config.SerialPort+" is not a device file",
			"serial_port usually looks like /dev/cu.usbserial-0001")
	}
	return pass("Serial device: " + c.Config.SerialPort)
}

// BinaryCheck verifies the meshtastic tool can be found and run.
type BinaryCheck struct {
	Config *config.Config
	Runner exec.Runner
}

func (c *BinaryCheck) Name() string     { return "meshtastic_bin" }
func (c *BinaryCheck) Category() string { return "RADIO" }

func (c *BinaryCheck) Run(ctx context.Context) CheckResult {
	bin := c.Config.MeshtasticBin
	path, ok := exec.FindBinary(bin)
	if !ok {
		return fail(fmt.Sprintf("'%s' not found", bin),
			`Install it with: pip3 install --upgrade "meshtastic[cli]"`)
	}

	src := device.NewCLISource(c.Config, c.Runner)
	src.Bin = path
	version, err := src.Version(ctx)
	if err != nil {
		return fail(fmt.Sprintf("%s doesn't run: %s", path, errors.OneLine(err)),
			"Reinstall the meshtastic CLI")
	}

	msg := "meshtastic: " + path
	if !strings.ContainsRune(bin, os.PathSeparator) && !exec.OnPath(bin) {
		msg += " (outside PATH)"
	}
	if version != "" {
		msg += " " + util.Truncate(version, 40)
	}
	return pass(msg)
}

// RadioCheck asks the radio for its node table.
type RadioCheck struct {
	Source device.Source
}

func (c *RadioCheck) Name() string     { return "radio" }
func (c *RadioCheck) Category() string { return "RADIO" }

func (c *RadioCheck) Run(ctx context.Context) CheckResult {
	t, err := c.Source.FetchNodes(ctx)
	if err != nil {
		var mmErr *errors.Error
		if errors.As(err, &mmErr) {
			return fail(mmErr.Short(), mmErr.Suggestion)
		}
		return fail(err.Error(), "")
	}
	if t.Len() == 0 {
		return warn("Radio answered but reported no nodes",
			"A freshly flashed radio may need a few minutes to hear the mesh")
	}
	n := t.Len()
	return pass(fmt.Sprintf("Radio answered with %d %s via %s",
		n, util.Pluralize(n, "node", "nodes"), c.Source.Describe()))
}
