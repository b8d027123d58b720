// Package tui draws the configuration menu in a terminal.
//
// Display reproduces the device's 21x5 text screen and is the engine's
// menu.Renderer. Model wraps an engine and its display in a Bubble Tea
// program, mapping the arrow keys (or h/j/k/l) onto the device's buttons:
//
//	↑ ↓      UP / DOWN
//	← →      LEFT / RIGHT (enter also selects)
//	space f  FIRE
//	q        quit without an exit action
//
// RunScript drives the same engine from a list of actions and prints each
// frame, for use without a terminal.
package tui
