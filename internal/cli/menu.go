package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/device"
	"github.com/elwarren/meshtastic-menubar/internal/logger"
	"github.com/elwarren/meshtastic-menubar/internal/menu"
	"github.com/elwarren/meshtastic-menubar/internal/node"
	"github.com/elwarren/meshtastic-menubar/internal/sink"
)

// menuCommand prints one menu render. Every failure ends up in the menu, so
// it only returns an error when stdout itself can't be written.
func menuCommand(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, flavor, err := prepare()
	if err == nil && cfg.Debug {
		return debugDump(ctx, out, cfg)
	}

	lines := buildMenu(ctx, cfg, flavor, err, true)
	return menu.Write(out, lines, flavor)
}

// prepare loads and validates the config and resolves the host flavor. The
// returned config and flavor are always usable, falling back to defaults
// and xbar, so the caller can still render the failure.
func prepare() (*config.Config, menu.Flavor, error) {
	cfg, err := loadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
		cfg.Path = config.Path(cfgFile)
	}

	flavor, flavorErr := menu.FlavorFor(cfg)
	if flavorErr != nil {
		flavor, _ = menu.LookupFlavor("xbar")
	}

	if err != nil {
		return cfg, flavor, err
	}
	if err := config.Validate(cfg); err != nil {
		return cfg, flavor, err
	}
	return cfg, flavor, nil
}

func newPage(cfg *config.Config, f menu.Flavor) menu.Page {
	return menu.Page{
		Options:       menu.OptionsFromConfig(cfg, f),
		Status:        statusFlag,
		Version:       menu.VersionInfo{App: version, Go: runtime.Version()},
		Interval:      cfg.Interval,
		ConfigPath:    cfg.Path,
		ConfigEntries: cfg.Entries(),
		Environ:       environ(),
	}
}

// buildMenu runs one render. setupErr is the error from prepare, if any.
// When save is set the node logs are written after a successful fetch.
func buildMenu(ctx context.Context, cfg *config.Config, flavor menu.Flavor, setupErr error, save bool) []menu.Line {
	start := now()
	page := newPage(cfg, flavor)

	if setupErr != nil {
		return page.Unreachable(setupErr)
	}

	src := device.NewSource(cfg, newRunner(), fromFlag)

	var cli *device.CLISource
	if c, ok := src.(*device.CLISource); ok {
		if err := c.Preflight(); err != nil {
			return page.Unreachable(err)
		}
		cli = c
	}

	table, fetchErr := src.FetchNodes(ctx)
	if cli != nil {
		v, err := cli.Version(ctx)
		if err != nil {
			logger.Default().Debug("meshtastic --version: %v", err)
		}
		page.Version.Meshtastic = v
	}
	if fetchErr != nil {
		logger.Default().Warn("fetch failed: %v", fetchErr)
	}

	renderedAt := now()
	lines := page.Render(table, fetchErr, renderedAt)

	if save && fetchErr == nil {
		errs := sink.FromConfig(cfg).Save(ctx, renderedAt, table)
		lines = append(lines, menu.LogErrors(errs)...)
	}

	return append(lines, menu.Runtime(now().Sub(start)))
}

// debugDump prints the environment and node table as JSON in place of the
// menu. A successful fetch still lands in the JSON-lines node log.
func debugDump(ctx context.Context, w io.Writer, cfg *config.Config) error {
	env := make(map[string]string)
	for _, kv := range environ() {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}

	fmt.Fprintln(w, "Environment:")
	if err := writeJSON(w, env); err != nil {
		return err
	}

	src := device.NewSource(cfg, newRunner(), fromFlag)
	table, err := src.FetchNodes(ctx)
	fmt.Fprintln(w, "Nodes:")
	if err != nil {
		return writeJSON(w, map[string]string{"error": err.Error()})
	}
	if path := cfg.LogPath(cfg.LogNodesJSONL); path != "" {
		if err := sink.AppendNodes(path, now(), table); err != nil {
			logger.Default().Warn("%s", err)
		}
	}
	return writeJSON(w, table.JSON(nil))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fetchNodes loads the config and fetches the node table for the terminal
// commands. Errors are returned rather than rendered.
func fetchNodes(ctx context.Context) (*config.Config, *node.Table, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	src := device.NewSource(cfg, newRunner(), fromFlag)
	t, err := src.FetchNodes(ctx)
	return cfg, t, err
}
