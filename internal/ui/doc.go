// Package ui provides the colour themes shared by the sinks, the CLI and the
// TUI. Colours follow the --no-color flag, the NO_COLOR convention and
// terminal detection.
package ui
