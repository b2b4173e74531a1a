// Package viz renders simulation state in the terminal.
//
// It provides a braille pixel [Canvas], a side-view [BodyView] of the
// somite chain, ASCII line plots of recorded series, and an interactive
// Bubble Tea [Model] that steps a body live.
//
// # Key bindings (live view)
//
//	Space - pause/resume
//	R     - reset to the initial body
//	+/-   - simulation speed
//	?     - toggle key help
//	Q     - quit
package viz
