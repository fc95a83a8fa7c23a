package replay

import (
	"strings"
	"time"

	"github.com/san-kum/termdemo/internal/script"
)

// renderer reveals one step. begin and advance return the delay until the
// next advance, or done once the step has fully rendered.
type renderer interface {
	begin() (next time.Duration, done bool)
	advance() (next time.Duration, done bool)
	text() string
	finished() bool
	finish()
}

func newRenderer(st script.Step, t script.Timing) renderer {
	switch st.Kind {
	case script.Command:
		return &typist{runes: []rune(st.Text), interval: t.TypeInterval}
	case script.Progress:
		return &dotCycle{label: st.Label(), full: st.Text, interval: t.TickInterval, total: t.Ticks}
	case script.Announcement, script.Success, script.Output:
		return &immediate{full: st.Text, entrance: t.Entrance}
	}
	// script.New rejects other kinds.
	return &immediate{full: st.Text}
}

// typist reveals text one rune per interval.
type typist struct {
	runes    []rune
	n        int
	interval time.Duration
	done     bool
}

func (r *typist) begin() (time.Duration, bool) {
	r.n = 0
	r.done = false
	if len(r.runes) == 0 {
		r.done = true
		return 0, true
	}
	return r.interval, false
}

func (r *typist) advance() (time.Duration, bool) {
	if r.done {
		return 0, true
	}
	r.n++
	if r.n >= len(r.runes) {
		r.n = len(r.runes)
		r.done = true
		return 0, true
	}
	return r.interval, false
}

func (r *typist) text() string   { return string(r.runes[:r.n]) }
func (r *typist) finished() bool { return r.done }

func (r *typist) finish() {
	r.n = len(r.runes)
	r.done = true
}

// dotCycle shows label followed by 0-3 dots for a fixed number of ticks.
type dotCycle struct {
	label    string
	full     string
	interval time.Duration
	total    int
	count    int
	done     bool
}

func (r *dotCycle) begin() (time.Duration, bool) {
	r.count = 0
	r.done = false
	if r.total <= 0 {
		r.done = true
		return 0, true
	}
	return r.interval, false
}

func (r *dotCycle) advance() (time.Duration, bool) {
	if r.done {
		return 0, true
	}
	r.count++
	if r.count >= r.total {
		r.done = true
		return 0, true
	}
	return r.interval, false
}

func (r *dotCycle) text() string {
	if r.done {
		return r.full
	}
	return r.label + strings.Repeat(".", r.count%4)
}

func (r *dotCycle) finished() bool { return r.done }
func (r *dotCycle) finish()        { r.done = true }

// immediate shows its text at once and completes when the entrance
// transition is over.
type immediate struct {
	full     string
	entrance time.Duration
	done     bool
}

func (r *immediate) begin() (time.Duration, bool) {
	r.done = r.entrance <= 0
	return r.entrance, r.done
}

func (r *immediate) advance() (time.Duration, bool) {
	r.done = true
	return 0, true
}

func (r *immediate) text() string   { return r.full }
func (r *immediate) finished() bool { return r.done }
func (r *immediate) finish()        { r.done = true }
