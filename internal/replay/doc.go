// Package replay drives a scripted terminal session: commands typed one
// character at a time, progress dots, static announcement lines, timed
// pauses between steps and an endless replay loop.
//
// The package has no clock of its own. A [Driver] asks its [Scheduler] to
// hand a [Token] back after some delay and the host calls [Driver.Fire]
// when that happens. Three hosts exist:
//
//   - [VirtualClock]: deterministic time for tests and offline tooling
//   - [Runner]: wall-clock timers serialized onto one goroutine
//   - the Bubble Tea model in internal/viz, which turns tokens into tea.Tick commands
//
// # Thread Safety
//
// Driver instances are NOT thread-safe. Every call, including Fire, must
// come from the host's single event goroutine.
package replay
