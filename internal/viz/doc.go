// Package viz renders a replay.Driver as a fake terminal window using
// Bubble Tea and lipgloss.
//
// Driver wake-ups become tea.Tick commands, so every driver call runs on
// the Bubble Tea event loop. Terminal focus events are the visibility
// signal: gaining focus while idle starts the sequence.
//
// # Key Bindings
//
//	r - Replay from the first step
//	v - Toggle visibility
//	t - Cycle color themes
//	? - Show full help
//	q - Quit
package viz
