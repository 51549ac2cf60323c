package doctor

import (
	"net/http"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/device"
	"github.com/elwarren/meshtastic-menubar/internal/discover"
	"github.com/elwarren/meshtastic-menubar/internal/exec"
)

// Options selects which checks Checks builds.
type Options struct {
	ConfigPath string
	Config     *config.Config
	Runner     exec.Runner
	Source     device.Source
	Client     *http.Client
	Browser    discover.Browser
	// Offline skips the checks that talk to the radio.
	Offline bool
}

// Checks returns the standard set of checks, in display order.
func Checks(opts Options) []Check {
	checks := []Check{
		&ConfigFileCheck{Path: opts.ConfigPath},
		&ConfigValidCheck{Path: opts.ConfigPath},
		&ConnectionCheck{Config: opts.Config},
		&SerialDeviceCheck{Config: opts.Config},
		&BinaryCheck{Config: opts.Config, Runner: opts.Runner},
		&LogDirCheck{Config: opts.Config},
	}
	if opts.Offline {
		return checks
	}
	checks = append(checks, &RadioCheck{Source: opts.Source})
	if opts.Browser != nil {
		checks = append(checks, &MDNSCheck{Config: opts.Config, Browser: opts.Browser})
	}
	return append(checks, &ReportCheck{Config: opts.Config, Client: opts.Client})
}
