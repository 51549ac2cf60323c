package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/device"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/sink"
	"github.com/elwarren/meshtastic-menubar/internal/watch"
)

var (
	watchEvery  time.Duration
	watchNoLogs bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live node table in the terminal",
	Long: `Poll the radio on an interval and show the node table, colored by how
recently each node was heard. Each fetch also writes the node logs unless
--no-logs is given.

Keyboard shortcuts:
  r           Refresh now
  up/down     Move through the table
  q / Ctrl+C  Quit

Examples:
  meshtastic-menubar watch
  meshtastic-menubar watch --every 30s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand()
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchEvery, "every", 0, "refresh interval (default: the config's interval in minutes)")
	watchCmd.Flags().BoolVar(&watchNoLogs, "no-logs", false, "don't write the node logs")
	rootCmd.AddCommand(watchCmd)
}

// watchOptions builds the dashboard options from config and flags.
func watchOptions() (watch.Options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return watch.Options{}, err
	}
	if err := config.Validate(cfg); err != nil {
		return watch.Options{}, err
	}

	interval := watchEvery
	if interval == 0 {
		interval = time.Duration(cfg.Interval) * time.Minute
	}
	if interval < 5*time.Second {
		return watch.Options{}, errors.New(errors.ErrConfig,
			"Interval too short",
			"The radio needs a few seconds per fetch; use --every 5s or more")
	}

	opts := watch.Options{
		Source:   device.NewSource(cfg, newRunner(), fromFlag),
		Interval: interval,
		Timeout:  cfg.FetchTimeout,
		Now:      now,
	}
	if !watchNoLogs {
		opts.Save = sink.FromConfig(cfg).Save
	}
	return opts, nil
}

func watchCommand() error {
	opts, err := watchOptions()
	if err != nil {
		return err
	}
	return watch.Run(opts)
}
