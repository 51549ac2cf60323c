package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/device"
	"github.com/elwarren/meshtastic-menubar/internal/discover"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/logger"
	"github.com/elwarren/meshtastic-menubar/internal/ui"
	"github.com/elwarren/meshtastic-menubar/internal/util"
)

var (
	initForce          bool
	initNonInteractive bool
	initConnection     string
	initTarget         string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/" + config.ConfigFileName,
	Long: `Create the config file, asking how to reach the radio and which menu-bar
host is in use. Radios announcing themselves over mDNS are offered as the
wifi target. Anything not asked keeps its default and can be changed
later with 'meshtastic-menubar config set'.

Examples:
  meshtastic-menubar init
  meshtastic-menubar init --non-interactive --connection serial --target /dev/cu.usbserial-0001
  meshtastic-menubar init --force --flavor swiftbar`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Path:           config.Path(cfgFile),
			Connection:     initConnection,
			Target:         initTarget,
			Flavor:         flavorFlag,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
			Out:            cmd.OutOrStdout(),
			Ctx:            cmd.Context(),
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "don't prompt; use flags and defaults")
	initCmd.Flags().StringVar(&initConnection, "connection", "", "wifi, ble or serial")
	initCmd.Flags().StringVar(&initTarget, "target", "", "wifi host, BLE name or serial device")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string
	Connection     string
	Target         string
	Flavor         string
	Overwrite      bool
	NonInteractive bool
	Out            io.Writer
	Ctx            context.Context
}

// Init writes a new config file.
func Init(opts InitOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}

	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("'%s' already exists. Overwrite?", opts.Path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(opts.Out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	connection := strings.ToLower(opts.Connection)
	if connection == "" {
		connection = cfg.Connection
	}
	target := opts.Target
	flavor := strings.ToLower(opts.Flavor)
	if flavor == "" {
		flavor = cfg.Bitbar
	}

	if !opts.NonInteractive {
		radios := findRadios(opts.Ctx, opts.Out)
		if err := promptInit(&connection, &target, &flavor, radios); err != nil {
			return err
		}
	}

	if err := applyConnection(cfg, connection, target); err != nil {
		return err
	}
	cfg.Bitbar = flavor
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.Save(opts.Path, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", opts.Path),
			"Check directory permissions")
	}

	fmt.Fprintf(opts.Out, "%s Created %s\n", ui.SymbolPass, opts.Path)

	if !opts.NonInteractive {
		testConnection(opts.Ctx, opts.Out, opts.Path)
	}

	fmt.Fprintln(opts.Out)
	fmt.Fprintln(opts.Out, "Next steps:")
	fmt.Fprintln(opts.Out, "  meshtastic-menubar preview  - See the menu in the terminal")
	fmt.Fprintln(opts.Out, "  meshtastic-menubar doctor   - Check the setup")
	fmt.Fprintln(opts.Out, "  Copy the binary into your "+flavor+" plugin folder as meshtastic-menubar.5m.sh")
	return nil
}

// applyConnection sets the connection mode and its target on cfg.
func applyConnection(cfg *config.Config, connection, target string) error {
	target = strings.TrimSpace(target)
	switch connection {
	case config.ConnectionWifi:
		if target != "" {
			cfg.WifiHost = target
		}
	case config.ConnectionBLE:
		if target != "" {
			cfg.BLEName = target
		}
	case config.ConnectionSerial:
		if target != "" {
			cfg.SerialPort = target
		}
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown connection '%s'", connection),
			"Choose wifi, ble, or serial")
	}
	cfg.Connection = connection
	cfg.MeshtasticP1, cfg.MeshtasticP2 = "", ""
	return nil
}

func targetPrompt(connection string) (title, placeholder string) {
	switch connection {
	case config.ConnectionBLE:
		return "Bluetooth name of the radio", "Base_1a2b"
	case config.ConnectionSerial:
		return "Serial device", "/dev/cu.usbserial-0001"
	default:
		return "Radio hostname or IP", "meshtastic.local"
	}
}

// manualEntry is the picker value for typing the target by hand.
const manualEntry = ""

func radioOptions(radios []discover.Radio) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(radios)+1)
	for _, r := range radios {
		opts = append(opts, huh.NewOption(r.Label(), r.Target()))
	}
	return append(opts, huh.NewOption("Enter it myself", manualEntry))
}

// findRadios browses for radios so init can offer them for wifi_host.
// Discovery problems only mean there is nothing to offer.
func findRadios(ctx context.Context, w io.Writer) []discover.Radio {
	spinner := ui.NewSpinner(w, "Looking for radios on the network")
	spinner.Start()

	radios, err := newBrowser().Browse(ctx)
	if err != nil {
		logger.Default().Debug("mdns browse: %v", err)
		spinner.Fail("discovery unavailable")
		return nil
	}
	n := len(radios)
	spinner.Success(fmt.Sprintf("%d %s found", n, util.Pluralize(n, "radio", "radios")))
	return radios
}

func promptInit(connection, target, flavor *string, radios []discover.Radio) error {
	picked := manualEntry
	if len(radios) > 0 {
		picked = radios[0].Target()
	}
	useDiscovered := func() bool {
		return *connection == config.ConnectionWifi && len(radios) > 0
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How is the radio connected?").
				Options(
					huh.NewOption("WiFi (network)", config.ConnectionWifi),
					huh.NewOption("Bluetooth LE", config.ConnectionBLE),
					huh.NewOption("USB serial", config.ConnectionSerial),
				).
				Value(connection),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Radios found on this network").
				Options(radioOptions(radios)...).
				Value(&picked),
		).WithHideFunc(func() bool { return !useDiscovered() }),
		huh.NewGroup(
			huh.NewInput().
				TitleFunc(func() string {
					title, _ := targetPrompt(*connection)
					return title
				}, connection).
				PlaceholderFunc(func() string {
					_, placeholder := targetPrompt(*connection)
					return placeholder
				}, connection).
				Value(target).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a target is required")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return useDiscovered() && picked != manualEntry }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Menu-bar host").
				Options(
					huh.NewOption("xbar (macOS)", "xbar"),
					huh.NewOption("SwiftBar (macOS)", "swiftbar"),
					huh.NewOption("Argos (GNOME)", "argos"),
					huh.NewOption("Terminal only", "local"),
				).
				Value(flavor),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}
	if useDiscovered() && picked != manualEntry {
		*target = picked
	}
	return nil
}

// testConnection tries one fetch with the saved config so a bad target
// shows up right away. A failure doesn't undo the save.
func testConnection(ctx context.Context, w io.Writer, path string) {
	cfg, err := config.Load(path)
	if err != nil {
		return
	}

	src := device.NewCLISource(cfg, newRunner())
	spinner := ui.NewSpinner(w, "Asking the radio via "+src.Describe())
	spinner.Start()

	t, err := src.FetchNodes(ctx)
	if err != nil {
		spinner.Fail(errors.OneLine(err))
		fmt.Fprintln(w, "  Run 'meshtastic-menubar doctor' for details.")
		return
	}
	n := t.Len()
	spinner.Success(fmt.Sprintf("%d %s heard", n, util.Pluralize(n, "node", "nodes")))
}
