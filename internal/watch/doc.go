// Package watch is a terminal dashboard that polls the radio on an interval
// and shows the node table, colored by how recently each node was heard.
//
// It is the interactive counterpart of the menu-bar plugin: the same fetch,
// ordering and log sinks, redrawn in place instead of printed once.
package watch
