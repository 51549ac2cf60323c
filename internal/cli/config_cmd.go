package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show the effective settings, print the config file location, or change a
single setting in place. Comments in the file are kept.

Examples:
  meshtastic-menubar config show
  meshtastic-menubar config path
  meshtastic-menubar config set connection serial
  meshtastic-menubar config set serial_port /dev/cu.usbserial-0001`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), config.Path(cfgFile))
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSet(cmd, args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configSet writes key=value and reloads the file; an edit that leaves the
// config invalid is rolled back.
func configSet(cmd *cobra.Command, key, value string) error {
	path := config.Path(cfgFile)

	before, readErr := os.ReadFile(path)
	existed := readErr == nil

	if err := config.SetValue(path, key, value); err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		if existed {
			os.WriteFile(path, before, 0644)
		} else {
			os.Remove(path)
		}
		var mmErr *errors.Error
		if errors.As(err, &mmErr) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s: %s' was not saved: %s", key, value, mmErr.Message),
				mmErr.Suggestion)
		}
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return err
}
