// Package cli implements the meshtastic-menubar command line.
//
// Run without a subcommand it is a menu-bar plugin: it asks the radio for
// its node table, prints the menu in the configured host's line protocol,
// writes the node logs, and always exits 0 so the host keeps showing the
// menu even when something went wrong.
//
// The subcommands are for people at a terminal:
//
//	meshtastic-menubar preview         - Show the menu as an indented tree
//	meshtastic-menubar watch           - Live node table
//	meshtastic-menubar nodes           - Dump the node table as JSON or CSV
//	meshtastic-menubar doctor          - Diagnose config and radio problems
//	meshtastic-menubar init            - Create ~/.meshtastic-menubar.yml
//	meshtastic-menubar config [show|path|set]
//	meshtastic-menubar version
//
// Global flags (--config, --flavor, --from, --debug, --verbose) are defined
// on the root command and apply to every subcommand.
package cli
