package cli

import (
	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for meshtastic-menubar.

Examples:
  # Bash
  meshtastic-menubar completion bash > /etc/bash_completion.d/meshtastic-menubar

  # Zsh
  meshtastic-menubar completion zsh > "${fpath[1]}/_meshtastic-menubar"

  # Fish
  meshtastic-menubar completion fish > ~/.config/fish/completions/meshtastic-menubar.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
