package replay

import (
	"container/heap"
	"time"
)

// Token identifies one scheduled wake-up. Zero means "nothing pending" and
// is never handed to a Scheduler.
type Token uint64

// Scheduler arranges for tok to be passed to Driver.Fire after d.
type Scheduler interface {
	After(d time.Duration, tok Token)
}

// Canceler is implemented by schedulers that can drop a wake-up before it
// fires. Schedulers without it simply deliver stale tokens, which the
// driver ignores.
type Canceler interface {
	Cancel(tok Token)
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, tok Token)

func (f SchedulerFunc) After(d time.Duration, tok Token) { f(d, tok) }

type wakeup struct {
	at  time.Duration
	seq uint64
	tok Token
}

type wakeups []wakeup

func (w wakeups) Len() int { return len(w) }
func (w wakeups) Less(i, j int) bool {
	if w[i].at != w[j].at {
		return w[i].at < w[j].at
	}
	return w[i].seq < w[j].seq
}
func (w wakeups) Swap(i, j int)       { w[i], w[j] = w[j], w[i] }
func (w *wakeups) Push(x interface{}) { *w = append(*w, x.(wakeup)) }
func (w *wakeups) Pop() interface{} {
	old := *w
	n := len(old)
	x := old[n-1]
	*w = old[:n-1]
	return x
}

// VirtualClock is a Scheduler whose time only moves when Advance is called.
// Wake-ups due at the same instant fire in scheduling order.
type VirtualClock struct {
	now   time.Duration
	seq   uint64
	queue wakeups
	fire  func(Token)
}

func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Bind sets the function that receives due tokens, normally Driver.Fire.
func (c *VirtualClock) Bind(fire func(Token)) { c.fire = fire }

func (c *VirtualClock) After(d time.Duration, tok Token) {
	if d < 0 {
		d = 0
	}
	c.seq++
	heap.Push(&c.queue, wakeup{at: c.now + d, seq: c.seq, tok: tok})
}

func (c *VirtualClock) Cancel(tok Token) {
	for i, w := range c.queue {
		if w.tok == tok {
			heap.Remove(&c.queue, i)
			return
		}
	}
}

// Now is the time elapsed since the clock was created.
func (c *VirtualClock) Now() time.Duration { return c.now }

// Pending is the number of wake-ups not yet delivered.
func (c *VirtualClock) Pending() int { return len(c.queue) }

// Advance moves time forward by d, delivering every wake-up that falls due,
// including ones scheduled while advancing.
func (c *VirtualClock) Advance(d time.Duration) {
	c.AdvanceTo(c.now + d)
}

// AdvanceTo moves time forward to t.
func (c *VirtualClock) AdvanceTo(t time.Duration) {
	for len(c.queue) > 0 && c.queue[0].at <= t {
		w := heap.Pop(&c.queue).(wakeup)
		c.now = w.at
		if c.fire != nil {
			c.fire(w.tok)
		}
	}
	if t > c.now {
		c.now = t
	}
}

// Step delivers the next pending wake-up and reports whether there was one.
func (c *VirtualClock) Step() bool {
	if len(c.queue) == 0 {
		return false
	}
	c.AdvanceTo(c.queue[0].at)
	return true
}
