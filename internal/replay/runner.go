package replay

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/termdemo/internal/script"
)

// Runner hosts a Driver on wall-clock timers. All driver calls happen on
// the goroutine executing Run.
type Runner struct {
	driver *Driver
	tokens chan Token
	calls  chan func(*Driver)
	done   chan struct{}

	mu     sync.Mutex
	timers map[Token]*time.Timer
}

func NewRunner(seq *script.Sequence, opts ...Option) *Runner {
	r := &Runner{
		tokens: make(chan Token, 16),
		calls:  make(chan func(*Driver)),
		done:   make(chan struct{}),
		timers: make(map[Token]*time.Timer),
	}
	r.driver = NewDriver(seq, r, opts...)
	return r
}

func (r *Runner) After(d time.Duration, tok Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timers[tok] = time.AfterFunc(d, func() {
		r.mu.Lock()
		delete(r.timers, tok)
		r.mu.Unlock()
		select {
		case r.tokens <- tok:
		case <-r.done:
		}
	})
}

func (r *Runner) Cancel(tok Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[tok]; ok {
		t.Stop()
		delete(r.timers, tok)
	}
}

// Do runs fn on the driver goroutine and waits for it. It returns false if
// the runner has already stopped.
func (r *Runner) Do(ctx context.Context, fn func(*Driver)) bool {
	wait := make(chan struct{})
	call := func(d *Driver) {
		fn(d)
		close(wait)
	}
	select {
	case r.calls <- call:
	case <-r.done:
		return false
	case <-ctx.Done():
		return false
	}
	<-wait
	return true
}

// Run marks the surface visible and drives the sequence until ctx is done,
// calling onView after every change. The driver is stopped on return so no
// timer outlives the call.
func (r *Runner) Run(ctx context.Context, onView func(View)) error {
	defer close(r.done)
	defer r.stopAll()

	notify := func() {
		if onView != nil {
			onView(r.driver.View())
		}
	}

	r.driver.SetVisible(true)
	notify()
	for {
		select {
		case <-ctx.Done():
			r.driver.Stop()
			return ctx.Err()
		case tok := <-r.tokens:
			r.driver.Fire(tok)
			notify()
		case call := <-r.calls:
			call(r.driver)
			notify()
		}
	}
}

func (r *Runner) stopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tok, t := range r.timers {
		t.Stop()
		delete(r.timers, tok)
	}
}
