package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/util"
)

// Flavor is the host-specific spelling of the line protocol.
type Flavor struct {
	Name string
	// EscapeBang escapes "!" in node ids handed to actions. Hosts that run
	// actions through an interactive zsh would otherwise expand it.
	EscapeBang bool
	// Separator goes between attributes.
	Separator string
	// ShellAttr names the attribute carrying the command.
	ShellAttr string
	// Inline puts the whole command line into ShellAttr (Argos) instead of
	// ShellAttr plus param1..N.
	Inline bool
}

var flavors = map[string]Flavor{
	"xbar":     {Name: "xbar", EscapeBang: true, Separator: "|", ShellAttr: "shell"},
	"swiftbar": {Name: "swiftbar", Separator: " ", ShellAttr: "shell"},
	"argos":    {Name: "argos", Separator: " ", ShellAttr: "bash", Inline: true},
	"local":    {Name: "local", EscapeBang: true, Separator: "|", ShellAttr: "shell"},
}

// LookupFlavor returns the built-in flavor called name.
func LookupFlavor(name string) (Flavor, error) {
	f, ok := flavors[strings.ToLower(name)]
	if !ok {
		return Flavor{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown host flavor '%s'", name),
			"Use one of: "+strings.Join(config.Flavors, ", "))
	}
	return f, nil
}

// FlavorFor resolves the configured flavor and applies the attr_separator
// and shell_attr overrides.
func FlavorFor(cfg *config.Config) (Flavor, error) {
	f, err := LookupFlavor(cfg.Bitbar)
	if err != nil {
		return Flavor{}, err
	}
	if cfg.AttrSeparator != "" {
		f.Separator = cfg.AttrSeparator
	}
	if cfg.ShellAttr != "" {
		f.ShellAttr = cfg.ShellAttr
	}
	return f, nil
}

// EscapeID prepares a node id for use as an action argument.
func (f Flavor) EscapeID(id string) string {
	if f.EscapeBang {
		return strings.ReplaceAll(id, "!", `\!`)
	}
	return id
}

// attrs spells out a line's attributes in order.
func (f Flavor) attrs(attrs []Attr) []string {
	var out []string
	for _, a := range attrs {
		if a.Action != nil {
			out = append(out, f.action(*a.Action)...)
			continue
		}
		out = append(out, a.Key+"="+util.QuoteAttr(a.Value))
	}
	return out
}

func (f Flavor) action(a Action) []string {
	terminal := "terminal=" + strconv.FormatBool(a.Terminal)

	if f.Inline {
		cmdline := util.ShellJoin(a.Command, a.Args...)
		if a.Tee != "" {
			cmdline += " | tee " + util.ShellQuote(a.Tee)
		}
		return []string{f.ShellAttr + "=" + util.ShellQuote(cmdline), terminal}
	}

	out := []string{f.ShellAttr + "=" + util.QuoteAttr(a.Command), terminal}
	params := a.Args
	if a.Tee != "" {
		params = append(append([]string{}, params...), "|", "tee "+a.Tee)
	}
	for i, p := range params {
		out = append(out, fmt.Sprintf("param%d=%s", i+1, util.QuoteAttr(p)))
	}
	return out
}

func (f Flavor) joiner() string {
	if strings.TrimSpace(f.Separator) == "" {
		return " "
	}
	return " " + f.Separator + " "
}
