// Package ui renders terminal output for the interactive commands: the menu
// preview tree, the node table used by watch and nodes, doctor results, and
// spinners while the radio is queried.
//
// None of this is used when the binary runs as a menu-bar plugin; that path
// writes the plain line protocol from package menu.
package ui
