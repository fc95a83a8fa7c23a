package replay

// EventType classifies driver events.
type EventType int

const (
	EventPassStarted EventType = iota
	EventStepActivated
	EventFrame
	EventStepCompleted
	EventCooldown
	EventStopped
	EventStartRejected
	EventStaleToken
)

var eventNames = [...]string{
	EventPassStarted:   "pass_started",
	EventStepActivated: "step_activated",
	EventFrame:         "frame",
	EventStepCompleted: "step_completed",
	EventCooldown:      "cooldown",
	EventStopped:       "stopped",
	EventStartRejected: "start_rejected",
	EventStaleToken:    "stale_token",
}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// Event is emitted on every driver transition. Index is -1 when no step is
// involved; Text carries the revealed text on frames.
type Event struct {
	Type  EventType
	Pass  int
	Index int
	Text  string
}

type Observer interface {
	OnEvent(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// StopAfter calls stop once pass n has played its final step, at the start
// of its cooldown. A non-positive n never stops.
func StopAfter(n int, stop func()) Observer {
	return ObserverFunc(func(e Event) {
		if n > 0 && e.Type == EventCooldown && e.Pass >= n {
			stop()
		}
	})
}
