package doctor

import (
	"context"
	"net/http"
	"os"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/sink"
)

// LogDirCheck verifies the log directory is writable.
type LogDirCheck struct {
	Config *config.Config
}

func (c *LogDirCheck) Name() string     { return "log_dir" }
func (c *LogDirCheck) Category() string { return "LOGS" }

func (c *LogDirCheck) Run(ctx context.Context) CheckResult {
	if c.Config.LogNodesJSONL == "" && c.Config.LogNodesCSV == "" && c.Config.LogWifiReport == "" {
		return skip("Node logs disabled")
	}

	dir := c.Config.LogDir
	info, err := os.Stat(dir)
	if err != nil {
		return fail("Log directory missing: "+dir, "Create it with: mkdir -p "+dir)
	}
	if !info.IsDir() {
		return fail(dir+" is not a directory", "Set log_dir to a directory")
	}

	f, err := os.CreateTemp(dir, ".meshtastic-menubar-check-*")
	if err != nil {
		return fail("Log directory not writable: "+dir, "Check the permissions on "+dir)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	return pass("Logs: " + dir)
}

// ReportCheck verifies the radio serves its JSON status report.
type ReportCheck struct {
	Config *config.Config
	Client *http.Client
}

func (c *ReportCheck) Name() string     { return "wifi_report" }
func (c *ReportCheck) Category() string { return "LOGS" }

func (c *ReportCheck) Run(ctx context.Context) CheckResult {
	if c.Config.Connection != config.ConnectionWifi || c.Config.LogWifiReport == "" {
		return skip("Status report not captured")
	}
	url := c.Config.TargetURL() + "/json/report"
	if err := sink.CheckReport(ctx, c.Client, url); err != nil {
		return warn("Status report unavailable at "+url+": "+err.Error(),
			"Enable the radio's web server, or set log_wifi_report: \"\"")
	}
	return pass("Status report: " + url)
}
