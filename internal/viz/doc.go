// Package viz renders the dial and run telemetry in the terminal.
//
//   - [Canvas]: braille pixel canvas with line, arc and text drawing
//   - [DialFace]: a speed dial drawn on a Canvas
//   - [Dashboard]: Bubble Tea program that drives a harness loop live
//
// # Key Bindings
//
//	Arrows/WASD - Steer, throttle and reverse
//	Space       - Handbrake
//	P           - Pause/Resume
//	R           - Reset
//	T           - Cycle color themes
//	Q           - Quit
//
// Terminals report key presses but not releases, so the dashboard treats
// each press as held for a short window that repeats extend.
package viz
