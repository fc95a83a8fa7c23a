package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/termdemo/internal/script"
)

func fastSequence() *script.Sequence {
	return script.MustNew("fast", []script.Step{
		{Kind: script.Command, Text: "ls", PostDelay: time.Millisecond},
		{Kind: script.Success, Text: "ok", PostDelay: time.Millisecond},
	}, script.Timing{
		TypeInterval: time.Millisecond,
		TickInterval: time.Millisecond,
		Ticks:        1,
		Entrance:     time.Millisecond,
	})
}

func TestRunnerLoops(t *testing.T) {
	r := NewRunner(fastSequence())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	passes := make(chan int, 64)
	go func() {
		_ = r.Run(ctx, func(v View) {
			select {
			case passes <- v.Pass:
			default:
			}
		})
	}()

	for {
		select {
		case p := <-passes:
			if p >= 3 {
				return
			}
		case <-ctx.Done():
			t.Fatal("runner did not complete three passes")
		}
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	r := NewRunner(fastSequence())
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx, nil) }()

	var phase Phase
	if !r.Do(context.Background(), func(d *Driver) { phase = d.Phase() }) {
		t.Fatal("Do failed on a running runner")
	}
	if phase == Idle {
		t.Error("expected the runner to have started the sequence")
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}

	if r.Do(context.Background(), func(*Driver) {}) {
		t.Error("expected Do to fail after Run returned")
	}
	r.mu.Lock()
	left := len(r.timers)
	r.mu.Unlock()
	if left != 0 {
		t.Errorf("expected no timers after stop, got %d", left)
	}
}

func TestRunnerStopsAtLastCooldown(t *testing.T) {
	seq := fastSequence()
	tm := seq.Timing()
	tm.Cooldown = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRunner(seq.WithTiming(tm), WithObserver(StopAfter(1, cancel)))

	var last View
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx, func(v View) { last = v }) }()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner waited out the cooldown")
	}
	if last.Pass != 1 {
		t.Errorf("expected to stop in pass 1, got %d", last.Pass)
	}
}

func TestStopAfter(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		event Event
		want  bool
	}{
		{"cooldown of last pass", 2, Event{Type: EventCooldown, Pass: 2}, true},
		{"cooldown of earlier pass", 2, Event{Type: EventCooldown, Pass: 1}, false},
		{"other event", 1, Event{Type: EventPassStarted, Pass: 2}, false},
		{"unbounded", 0, Event{Type: EventCooldown, Pass: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stopped := false
			StopAfter(tt.n, func() { stopped = true }).OnEvent(tt.event)
			if stopped != tt.want {
				t.Errorf("expected stopped=%v, got %v", tt.want, stopped)
			}
		})
	}
}
