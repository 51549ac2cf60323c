package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/node"
	"github.com/elwarren/meshtastic-menubar/internal/sink"
	"github.com/elwarren/meshtastic-menubar/internal/ui"
	"github.com/elwarren/meshtastic-menubar/internal/util"
)

var (
	nodesFormat string
	nodesRaw    bool
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Print the node table",
	Long: `Fetch the node table once and print it.

Formats:
  table  Freshness-colored summary (default on a terminal)
  json   The table as reported, keyed by node id, in the radio's order
  csv    One row per node, flattened like the CSV log

Examples:
  meshtastic-menubar nodes
  meshtastic-menubar nodes --format json | jq 'keys'
  meshtastic-menubar nodes --format csv > nodes.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return nodesCommand(cmd)
	},
}

func init() {
	nodesCmd.Flags().StringVar(&nodesFormat, "format", "", "table, json or csv (default table on a terminal, json otherwise)")
	nodesCmd.Flags().BoolVar(&nodesRaw, "raw", false, "keep the raw device fields in json output")
	rootCmd.AddCommand(nodesCmd)
}

func nodesCommand(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	format := nodesFormat
	if format == "" {
		format = "json"
		if ui.IsTerminal(out) {
			format = "table"
		}
	}

	spinner := ui.NewSpinner(cmd.ErrOrStderr(), "Asking the radio")
	spinner.Start()
	_, table, err := fetchNodes(cmd.Context())
	if err != nil {
		spinner.Fail("")
		if format == "json" {
			WriteJSONFromError(out, err)
		}
		return err
	}
	n := table.Len()
	spinner.Success(fmt.Sprintf("%d %s", n, util.Pluralize(n, "node", "nodes")))

	switch format {
	case "json":
		var strip func(map[string]any) map[string]any
		if !nodesRaw {
			strip = sink.StripRawMap
		}
		return writeJSON(out, table.JSON(strip))
	case "csv":
		return sink.WriteCSV(out, table)
	case "table":
		_, err := fmt.Fprint(out, ui.RenderNodeTable(ui.NodeRows(table, node.Order(table), now())))
		return err
	default:
		return fmt.Errorf("unknown format %q: use table, json or csv", format)
	}
}
