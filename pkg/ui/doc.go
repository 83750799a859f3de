// Package ui holds the plain terminal output of tagscrape: colored print
// helpers, the per-tag build progress and the end-of-run summary table.
// Colors are only emitted when stdout is a terminal.
//
// The full screen dashboard lives in the tui subpackage.
package ui
