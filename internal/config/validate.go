package config

import (
	"fmt"
	"strings"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

// Flavors lists the supported menu-bar hosts.
var Flavors = []string{"xbar", "swiftbar", "argos", "local"}

// Validate checks the config for errors and returns structured error messages.
// An unknown connection mode is deliberately not an error here: the menu
// reports it as "No connection method set" so the host still shows a menu.
func Validate(cfg *Config) error {
	if !validFlavor(cfg.Bitbar) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown host flavor '%s'", cfg.Bitbar),
			"Set bitbar to one of: "+strings.Join(Flavors, ", "))
	}

	if cfg.Interval < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval must be at least 1 minute, got %d", cfg.Interval),
			"Set interval to match the refresh period in the plugin file name (e.g. 5 for .5m.)")
	}

	if strings.TrimSpace(cfg.MeshtasticBin) == "" {
		return errors.New(errors.ErrConfig,
			"meshtastic_bin is empty",
			"Set meshtastic_bin to the meshtastic CLI, e.g. 'meshtastic' or '/opt/homebrew/bin/meshtastic'")
	}

	if cfg.FetchTimeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("fetch_timeout can't be negative (%s)", cfg.FetchTimeout),
			"Use 0 for no timeout, or a duration like 30s")
	}

	for i, txt := range cfg.Texts {
		if strings.TrimSpace(txt) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("texts[%d] is empty", i),
				"Remove the empty entry from texts")
		}
	}

	return nil
}

func validFlavor(name string) bool {
	for _, f := range Flavors {
		if f == name {
			return true
		}
	}
	return false
}
