// Package device fetches the node table from a Meshtastic radio.
//
// The radio is reached through the meshtastic command line tool; the
// table is read from the JSON object it prints after "Nodes in mesh:" when
// called with --info. A file-backed source replays a saved table instead.
package device

import (
	"context"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/exec"
	"github.com/elwarren/meshtastic-menubar/internal/node"
)

// Source supplies the node table for one render.
type Source interface {
	FetchNodes(ctx context.Context) (*node.Table, error)
	// Describe names where the nodes come from, for diagnostics.
	Describe() string
}

// NewSource picks the source for cfg. A non-empty from path always wins over
// the configured radio.
func NewSource(cfg *config.Config, runner exec.Runner, from string) Source {
	if from != "" {
		return &FileSource{Path: config.ExpandTilde(from)}
	}
	return NewCLISource(cfg, runner)
}
