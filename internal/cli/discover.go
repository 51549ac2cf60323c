package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/discover"
	"github.com/elwarren/meshtastic-menubar/internal/ui"
	"github.com/elwarren/meshtastic-menubar/internal/util"
)

var (
	discoverJSON    bool
	discoverTimeout time.Duration
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find radios on the local network",
	Long: `Listen for Meshtastic radios announcing themselves over mDNS and list
them. Any of the listed hosts can be used as wifi_host. Only radios with
WiFi enabled announce themselves, and mDNS does not cross subnets.

Examples:
  meshtastic-menubar discover
  meshtastic-menubar discover --timeout 10s
  meshtastic-menubar discover --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return discoverCommand(cmd)
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "output in JSON format")
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", discover.DefaultTimeout, "how long to listen")
	rootCmd.AddCommand(discoverCmd)
}

func discoverCommand(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	browser := newBrowser()
	if b, ok := browser.(*discover.MDNSBrowser); ok && discoverTimeout > 0 {
		b.Timeout = discoverTimeout
	}

	spinner := ui.NewSpinner(cmd.ErrOrStderr(), "Listening for "+discover.Service)
	spinner.Start()
	radios, err := browser.Browse(cmd.Context())
	if err != nil {
		spinner.Fail("")
		if discoverJSON {
			WriteJSONFromError(out, err)
		}
		return err
	}
	n := len(radios)
	spinner.Success(fmt.Sprintf("%d %s", n, util.Pluralize(n, "radio", "radios")))

	if discoverJSON {
		if radios == nil {
			radios = []discover.Radio{}
		}
		return WriteJSONSuccess(out, radios)
	}

	var b strings.Builder
	if n == 0 {
		b.WriteString("No radios announced themselves. Check the radio's WiFi is on and on this network.\n")
		_, err := fmt.Fprint(out, b.String())
		return err
	}

	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	for _, r := range radios {
		fmt.Fprintf(&b, "%s %s\n", ui.SymbolPass, r.Instance)
		if r.Host != "" {
			fmt.Fprintf(&b, "  host: %s\n", r.Host)
		}
		fmt.Fprintf(&b, "  ipv4: %s\n", util.JoinOrDefault(r.IPv4, "-"))
	}
	b.WriteString("\n" + mutedStyle.Render("Use one with: meshtastic-menubar config set wifi_host "+radios[0].Target()) + "\n")

	_, err = fmt.Fprint(out, b.String())
	return err
}
