package replay

import (
	"time"

	"github.com/san-kum/termdemo/internal/script"
)

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingStart
	pendingAdvance
	pendingRestart
)

// Driver walks a Sequence one step at a time and loops forever.
//
// States are Idle (cursor -1), Active(i) and Cooldown. At most one
// transition is pending at any time and at most one renderer is active.
type Driver struct {
	seq   *script.Sequence
	sched Scheduler
	obs   Observer

	phase     Phase
	cursor    int
	completed []bool
	running   bool
	visible   bool
	pass      int

	lastTok    Token
	transition Token
	pending    pendingKind
	tick       Token
	active     renderer
}

type Option func(*Driver)

// WithObserver registers o for driver events.
func WithObserver(o Observer) Option {
	return func(d *Driver) { d.obs = o }
}

func NewDriver(seq *script.Sequence, sched Scheduler, opts ...Option) *Driver {
	d := &Driver{
		seq:       seq,
		sched:     sched,
		cursor:    -1,
		completed: make([]bool, seq.Len()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewVirtualDriver returns a driver bound to a fresh VirtualClock.
func NewVirtualDriver(seq *script.Sequence, opts ...Option) (*Driver, *VirtualClock) {
	clk := NewVirtualClock()
	d := NewDriver(seq, clk, opts...)
	clk.Bind(d.Fire)
	return d, clk
}

func (d *Driver) Sequence() *script.Sequence { return d.seq }
func (d *Driver) Phase() Phase               { return d.phase }
func (d *Driver) Cursor() int                { return d.cursor }
func (d *Driver) Running() bool              { return d.running }
func (d *Driver) Visible() bool              { return d.visible }
func (d *Driver) Pass() int                  { return d.pass }

// Pending reports whether a transition is scheduled.
func (d *Driver) Pending() bool { return d.transition != 0 }

// Completed returns the completed step indices in order.
func (d *Driver) Completed() []int {
	var out []int
	for i, ok := range d.completed {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// SetVisible feeds the visibility signal. Only the edge into visibility
// while Idle matters: it schedules the automatic start. Losing visibility
// before that start fires cancels it; mid-pass changes are ignored.
func (d *Driver) SetVisible(v bool) {
	was := d.visible
	d.visible = v
	if !v {
		if d.pending == pendingStart {
			d.cancelTransition()
		}
		return
	}
	if was || d.phase != Idle || d.transition != 0 {
		return
	}
	delay := d.seq.Timing().StartDelay
	if delay <= 0 {
		d.Start()
		return
	}
	d.scheduleTransition(pendingStart, delay)
}

// Start begins a pass at step 0. It does nothing unless the driver is Idle
// and visible.
func (d *Driver) Start() {
	if !d.visible || d.phase != Idle {
		d.emit(Event{Type: EventStartRejected, Index: -1})
		return
	}
	d.cancelTransition()
	d.beginPass()
}

// Stop cancels every pending wake-up and returns to Idle.
func (d *Driver) Stop() {
	d.cancelTransition()
	d.cancelTick()
	d.active = nil
	d.phase = Idle
	d.cursor = -1
	d.running = false
	d.clearCompleted()
	d.emit(Event{Type: EventStopped, Index: -1})
}

// Reset is Stop.
func (d *Driver) Reset() { d.Stop() }

// Replay restarts from step 0 right away.
func (d *Driver) Replay() {
	d.Stop()
	d.Start()
}

// StepComplete reports that step i finished rendering. Calls for any index
// other than the active, not yet completed one are ignored.
func (d *Driver) StepComplete(i int) {
	if d.phase != Active || i != d.cursor || d.completed[i] {
		return
	}
	d.cancelTick()
	if d.active != nil {
		d.active.finish()
	}
	d.completed[i] = true
	d.emit(Event{Type: EventStepCompleted, Index: i, Text: d.seq.Step(i).Text})

	st := d.seq.Step(i)
	if i == d.seq.Len()-1 {
		d.running = false
		d.phase = Cooldown
		d.emit(Event{Type: EventCooldown, Index: i})
		d.scheduleTransition(pendingRestart, d.seq.RestartDelay())
		return
	}
	d.scheduleTransition(pendingAdvance, st.PostDelay)
}

// Fire delivers a scheduled wake-up. Tokens that are not the current
// transition or renderer tick are dropped.
func (d *Driver) Fire(tok Token) {
	switch {
	case tok == 0:
		return
	case tok == d.tick:
		d.tick = 0
		next, done := d.active.advance()
		d.rendered(next, done)
	case tok == d.transition:
		kind := d.pending
		d.transition, d.pending = 0, pendingNone
		switch kind {
		case pendingStart:
			d.Start()
		case pendingAdvance:
			if d.phase == Active && d.cursor+1 < d.seq.Len() {
				d.activate(d.cursor + 1)
			}
		case pendingRestart:
			if d.phase == Cooldown {
				d.beginPass()
			}
		}
	default:
		d.emit(Event{Type: EventStaleToken, Index: -1})
	}
}

// View snapshots what the terminal should show.
func (d *Driver) View() View {
	v := View{
		Title:   d.seq.Title(),
		Prompt:  d.seq.Prompt(),
		Phase:   d.phase,
		Cursor:  d.cursor,
		Running: d.running,
		Pass:    d.pass,
	}
	for i := 0; i < d.seq.Len(); i++ {
		st := d.seq.Step(i)
		switch {
		case d.completed[i]:
			v.Lines = append(v.Lines, Line{Index: i, Kind: st.Kind, Text: st.Text})
		case d.phase == Active && i == d.cursor && d.active != nil:
			v.Lines = append(v.Lines, Line{Index: i, Kind: st.Kind, Text: d.active.text(), Active: !d.active.finished()})
		}
	}
	return v
}

func (d *Driver) beginPass() {
	d.clearCompleted()
	d.running = true
	d.pass++
	d.emit(Event{Type: EventPassStarted, Index: -1})
	d.activate(0)
}

func (d *Driver) activate(i int) {
	d.cancelTick()
	d.phase = Active
	d.cursor = i
	d.active = newRenderer(d.seq.Step(i), d.seq.Timing())
	d.emit(Event{Type: EventStepActivated, Index: i})
	next, done := d.active.begin()
	d.rendered(next, done)
}

func (d *Driver) rendered(next time.Duration, done bool) {
	d.emit(Event{Type: EventFrame, Index: d.cursor, Text: d.active.text()})
	if done {
		d.StepComplete(d.cursor)
		return
	}
	d.tick = d.schedule(next)
}

func (d *Driver) schedule(delay time.Duration) Token {
	if delay < 0 {
		delay = 0
	}
	d.lastTok++
	tok := d.lastTok
	d.sched.After(delay, tok)
	return tok
}

func (d *Driver) scheduleTransition(kind pendingKind, delay time.Duration) {
	d.cancelTransition()
	d.transition = d.schedule(delay)
	d.pending = kind
}

func (d *Driver) cancelTransition() {
	if d.transition == 0 {
		return
	}
	if c, ok := d.sched.(Canceler); ok {
		c.Cancel(d.transition)
	}
	d.transition, d.pending = 0, pendingNone
}

func (d *Driver) cancelTick() {
	if d.tick == 0 {
		return
	}
	if c, ok := d.sched.(Canceler); ok {
		c.Cancel(d.tick)
	}
	d.tick = 0
}

func (d *Driver) clearCompleted() {
	for i := range d.completed {
		d.completed[i] = false
	}
}

func (d *Driver) emit(e Event) {
	if d.obs == nil {
		return
	}
	e.Pass = d.pass
	d.obs.OnEvent(e)
}
