package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

// ConfigFileCheck verifies that a config file exists. A missing file is
// only a warning since every key has a default.
type ConfigFileCheck struct {
	Path string
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	info, err := os.Stat(c.Path)
	if os.IsNotExist(err) {
		return warn(fmt.Sprintf("No config file at %s, using defaults", c.Path),
			"Run 'meshtastic-menubar init' to create one")
	}
	if err != nil {
		return fail(fmt.Sprintf("Can't read %s: %v", c.Path, err),
			"Check the file permissions")
	}
	if info.IsDir() {
		return fail(c.Path+" is a directory",
			"Point --config or MM_CONFIG_FILE at a YAML file")
	}
	return pass("Config file: " + c.Path)
}

// ConfigValidCheck loads and validates the config.
type ConfigValidCheck struct {
	Path string
}

func (c *ConfigValidCheck) Name() string     { return "config_valid" }
func (c *ConfigValidCheck) Category() string { return "CONFIG" }

func (c *ConfigValidCheck) Run(ctx context.Context) CheckResult {
	cfg, err := config.LoadOrDefault(c.Path)
	if err != nil {
		return fail("Config doesn't load: "+errors.OneLine(err),
			"Check the YAML syntax in your config file")
	}
	if err := config.Validate(cfg); err != nil {
		var mmErr *errors.Error
		if errors.As(err, &mmErr) {
			return fail(mmErr.Message, mmErr.Suggestion)
		}
		return fail(err.Error(), "")
	}
	return pass(fmt.Sprintf("Config valid (%s, every %dm)", cfg.Bitbar, cfg.Interval))
}
