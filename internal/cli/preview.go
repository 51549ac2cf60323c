package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/menu"
	"github.com/elwarren/meshtastic-menubar/internal/ui"
)

var previewRaw bool

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the menu as a tree in the terminal",
	Long: `Render the menu exactly as the plugin would, but draw it as an indented
tree instead of the host's line protocol. Node logs are not written.

Examples:
  meshtastic-menubar preview
  meshtastic-menubar preview --raw --flavor argos
  meshtastic-menubar --from info.txt preview`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, flavor, err := prepare()
		lines := buildMenu(cmd.Context(), cfg, flavor, err, false)

		out := cmd.OutOrStdout()
		if previewRaw {
			return menu.Write(out, lines, flavor)
		}
		_, werr := fmt.Fprint(out, ui.RenderTree(lines))
		return werr
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "print the host line protocol instead of a tree")
	rootCmd.AddCommand(previewCmd)
}
