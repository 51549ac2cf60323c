package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/device"
	"github.com/elwarren/meshtastic-menubar/internal/doctor"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/ui"
)

// errChecksFailed makes doctor exit 1 without printing anything more.
var errChecksFailed = errors.New(errors.ErrConfig, "doctor found problems", "")

var (
	doctorJSON    bool
	doctorOffline bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config and radio problems",
	Long: `Run diagnostic checks to find out why the menu shows no nodes.

Checks:
  - Config file exists and is valid
  - Connection method and target
  - Serial device present (serial only)
  - meshtastic CLI installed and runnable
  - Log directory writable
  - Radio answers with a node table
  - wifi_host announced over mDNS (wifi only)
  - Status report reachable (wifi only)

Exits 1 if any check fails.

Examples:
  meshtastic-menubar doctor
  meshtastic-menubar doctor --offline
  meshtastic-menubar doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "skip the checks that talk to the radio")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Skip     int  `json:"skip"`
	AllClear bool `json:"all_clear"`
}

func doctorCommand(cmd *cobra.Command) error {
	path := config.Path(cfgFile)

	// Load errors are reported by the config checks; the rest run on defaults.
	cfg, err := loadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
		cfg.Path = path
	}

	runner := newRunner()
	checks := doctor.Checks(doctor.Options{
		ConfigPath: path,
		Config:     cfg,
		Runner:     runner,
		Source:     device.NewSource(cfg, runner, fromFlag),
		Browser:    newBrowser(),
		Offline:    doctorOffline,
	})

	results := doctor.RunAllParallel(cmd.Context(), checks)

	out := cmd.OutOrStdout()
	if doctorJSON {
		err = writeDoctorJSON(out, results)
	} else {
		err = writeDoctorText(out, results)
	}
	if err != nil {
		return err
	}

	if doctor.HasFailures(results) {
		return errChecksFailed
	}
	return nil
}

func groupResults(results []doctor.CheckResult) []CategoryOutput {
	var cats []CategoryOutput
	index := make(map[string]int)
	for _, r := range results {
		i, ok := index[r.Category]
		if !ok {
			i = len(cats)
			index[r.Category] = i
			cats = append(cats, CategoryOutput{Name: r.Category})
		}
		cats[i].Results = append(cats[i].Results, r)
	}
	return cats
}

func writeDoctorJSON(w io.Writer, results []doctor.CheckResult) error {
	counts := doctor.CountByStatus(results)
	return WriteJSONSuccess(w, DoctorOutput{
		Categories: groupResults(results),
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			Skip:     counts[doctor.StatusSkip],
			AllClear: counts[doctor.StatusWarn]+counts[doctor.StatusFail] == 0,
		},
	})
}

func writeDoctorText(w io.Writer, results []doctor.CheckResult) error {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	headerStyle := lipgloss.NewStyle().Bold(true)

	rows := make([]ui.DoctorCheckRow, len(results))
	for i, r := range results {
		rows[i] = ui.DoctorCheckRow{
			Status:     r.Status.String(),
			Category:   r.Category,
			Message:    r.Message,
			Suggestion: r.Suggestion,
		}
	}

	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render("Meshtastic Menubar Diagnostic Report") + "\n\n")
	b.WriteString(ui.RenderDoctorTable(rows))
	b.WriteString(strings.Repeat("━", 60) + "\n\n")

	symbol := successStyle.Render(ui.SymbolPass)
	if doctor.HasFailures(results) {
		symbol = errorStyle.Render(ui.SymbolFail)
	}
	fmt.Fprintf(&b, "%s %s\n\n", symbol, doctor.Summary(results))

	_, err := io.WriteString(w, b.String())
	return err
}
