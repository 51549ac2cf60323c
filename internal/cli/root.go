package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/discover"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/exec"
	"github.com/elwarren/meshtastic-menubar/internal/logger"
)

// Global flags
var (
	cfgFile    string
	flavorFlag string
	fromFlag   string
	statusFlag string
	debugFlag  bool
	verbose    bool
)

// Seams for tests.
var (
	newRunner  = func() exec.Runner { return exec.NewLocalRunner() }
	newBrowser = func() discover.Browser { return discover.NewBrowser() }
	now        = time.Now
	environ    = os.Environ
)

var rootCmd = &cobra.Command{
	Use:   "meshtastic-menubar",
	Short: "Meshtastic node list for xbar, SwiftBar and Argos",
	Long: `Show the nodes your Meshtastic radio has heard in the macOS or GNOME menu bar.

Run with no subcommand, the output is a menu in the line protocol of the
configured host (xbar, SwiftBar, Argos). Install the binary in the host's
plugin folder with the refresh interval in its name, e.g.
meshtastic-menubar.5m.sh.

Examples:
  meshtastic-menubar
  meshtastic-menubar --flavor swiftbar
  meshtastic-menubar --from saved-info.txt preview
  meshtastic-menubar doctor`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return menuCommand(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/"+config.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&flavorFlag, "flavor", "", "menu host: xbar, swiftbar, argos or local")
	rootCmd.PersistentFlags().StringVar(&fromFlag, "from", "", "read nodes from a saved --info output or JSON file instead of the radio")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "print the environment and node table as JSON instead of a menu")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&statusFlag, "status", "", "text shown next to the menu-bar icon")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig loads the config selected by --config and applies the global
// flag overrides. A missing file gives the defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(config.Path(cfgFile))
	if err != nil {
		return cfg, err
	}
	if flavorFlag != "" {
		cfg.Bitbar = strings.ToLower(strings.TrimSpace(flavorFlag))
	}
	if debugFlag {
		cfg.Debug = true
	}
	return cfg, nil
}
