package replay

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/termdemo/internal/script"
)

const ms = time.Millisecond

func scenarioSequence() *script.Sequence {
	return script.MustNew("scenario", []script.Step{
		{Kind: script.Command, Text: "git add .", PostDelay: 400 * ms},
		{Kind: script.Progress, Text: "Analyzing...", PostDelay: 1800 * ms},
		{Kind: script.Success, Text: "Done", PostDelay: 600 * ms},
	}, script.Timing{
		Cooldown:     0,
		StartDelay:   0,
		TypeInterval: 50 * ms,
		TickInterval: 180 * ms,
		Ticks:        10,
		Entrance:     300 * ms,
	})
}

type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) { r.events = append(r.events, e) }

func (r *recorder) frames(pass, index int) []string {
	var out []string
	for _, e := range r.events {
		if e.Type == EventFrame && e.Pass == pass && e.Index == index {
			out = append(out, e.Text)
		}
	}
	return out
}

func (r *recorder) count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func activeLines(v View) int {
	n := 0
	for _, l := range v.Lines {
		if l.Active {
			n++
		}
	}
	return n
}

var _ = Describe("Driver", func() {
	var (
		d   *Driver
		clk *VirtualClock
		rec *recorder
	)

	BeforeEach(func() {
		rec = &recorder{}
		d, clk = NewVirtualDriver(scenarioSequence(), WithObserver(rec))
	})

	Describe("starting", func() {
		It("begins idle", func() {
			Expect(d.Phase()).To(Equal(Idle))
			Expect(d.Cursor()).To(Equal(-1))
			Expect(d.Completed()).To(BeEmpty())
			Expect(d.Running()).To(BeFalse())
			Expect(d.View().Idle()).To(BeTrue())
		})

		It("ignores Start while not visible", func() {
			d.Start()
			clk.Advance(10 * time.Second)
			Expect(d.Cursor()).To(Equal(-1))
			Expect(d.Phase()).To(Equal(Idle))
			Expect(rec.count(EventStartRejected)).To(Equal(1))
		})

		It("starts on the visible edge", func() {
			d.SetVisible(true)
			Expect(d.Phase()).To(Equal(Active))
			Expect(d.Cursor()).To(Equal(0))
			Expect(d.Running()).To(BeTrue())
			Expect(d.Pass()).To(Equal(1))
		})

		It("treats a second Start as a no-op", func() {
			d.SetVisible(true)
			clk.Advance(120 * ms)
			before := d.View()
			d.Start()
			Expect(d.View()).To(Equal(before))
			Expect(d.Pass()).To(Equal(1))
		})

		It("does not restart when visibility repeats mid-pass", func() {
			d.SetVisible(true)
			clk.Advance(900 * ms)
			d.SetVisible(false)
			d.SetVisible(true)
			Expect(d.Cursor()).To(Equal(1))
			Expect(d.Pass()).To(Equal(1))
		})
	})

	Describe("auto-start delay", func() {
		BeforeEach(func() {
			seq := scenarioSequence()
			t := seq.Timing()
			t.StartDelay = 800 * ms
			d, clk = NewVirtualDriver(seq.WithTiming(t), WithObserver(rec))
		})

		It("waits before the first step", func() {
			d.SetVisible(true)
			Expect(d.Cursor()).To(Equal(-1))
			Expect(d.Pending()).To(BeTrue())
			clk.Advance(799 * ms)
			Expect(d.Cursor()).To(Equal(-1))
			clk.Advance(1 * ms)
			Expect(d.Cursor()).To(Equal(0))
		})

		It("cancels the pending start when the surface hides", func() {
			d.SetVisible(true)
			clk.Advance(400 * ms)
			d.SetVisible(false)
			Expect(d.Pending()).To(BeFalse())
			clk.Advance(5 * time.Second)
			Expect(d.Cursor()).To(Equal(-1))
		})

		It("lets an explicit Start pre-empt the pending one", func() {
			d.SetVisible(true)
			d.Start()
			Expect(d.Cursor()).To(Equal(0))
			Expect(d.Pending()).To(BeFalse())
			clk.Advance(800 * ms)
			Expect(d.Pass()).To(Equal(1))
		})
	})

	Describe("the git add scenario", func() {
		BeforeEach(func() {
			d.SetVisible(true)
		})

		It("types the command one character at a time", func() {
			clk.Advance(450 * ms)
			Expect(rec.frames(1, 0)).To(Equal([]string{
				"", "g", "gi", "git", "git ", "git a", "git ad", "git add", "git add ", "git add .",
			}))
			Expect(d.Completed()).To(Equal([]int{0}))
		})

		It("shows a caret only while typing", func() {
			clk.Advance(100 * ms)
			v := d.View()
			Expect(v.Lines).To(HaveLen(1))
			Expect(v.Lines[0].Text).To(Equal("gi"))
			Expect(v.Lines[0].Active).To(BeTrue())

			clk.Advance(350 * ms)
			v = d.View()
			Expect(v.Lines[0].Text).To(Equal("git add ."))
			Expect(v.Lines[0].Active).To(BeFalse())
		})

		It("activates the progress step 400ms after the command completes", func() {
			clk.AdvanceTo(849 * ms)
			Expect(d.Cursor()).To(Equal(0))
			clk.AdvanceTo(850 * ms)
			Expect(d.Cursor()).To(Equal(1))
			Expect(d.View().Lines[1].Text).To(Equal("Analyzing"))
		})

		It("cycles dots while the progress step ticks", func() {
			clk.AdvanceTo(2650 * ms)
			Expect(rec.frames(1, 1)).To(Equal([]string{
				"Analyzing",
				"Analyzing.", "Analyzing..", "Analyzing...", "Analyzing",
				"Analyzing.", "Analyzing..", "Analyzing...", "Analyzing",
				"Analyzing.",
				"Analyzing...",
			}))
			Expect(d.Completed()).To(Equal([]int{0, 1}))
			Expect(d.View().Lines[1].Text).To(Equal("Analyzing..."))
		})

		It("activates the success step after the progress delay", func() {
			clk.AdvanceTo(4449 * ms)
			Expect(d.Cursor()).To(Equal(1))
			clk.AdvanceTo(4450 * ms)
			Expect(d.Cursor()).To(Equal(2))
			Expect(d.View().Lines[2].Active).To(BeTrue())
		})

		It("enters cooldown and restarts 600ms after the last entrance", func() {
			clk.AdvanceTo(4750 * ms)
			Expect(d.Phase()).To(Equal(Cooldown))
			Expect(d.Running()).To(BeFalse())
			Expect(d.Completed()).To(Equal([]int{0, 1, 2}))
			Expect(d.Cursor()).To(Equal(2))

			clk.AdvanceTo(5349 * ms)
			Expect(d.Phase()).To(Equal(Cooldown))

			clk.AdvanceTo(5350 * ms)
			Expect(d.Phase()).To(Equal(Active))
			Expect(d.Cursor()).To(Equal(0))
			Expect(d.Completed()).To(BeEmpty())
			Expect(d.Running()).To(BeTrue())
			Expect(d.Pass()).To(Equal(2))
			Expect(d.View().Lines).To(HaveLen(1))
			Expect(d.View().Lines[0].Text).To(Equal(""))
		})

		It("keeps looping", func() {
			clk.AdvanceTo(3 * 5350 * ms)
			Expect(d.Pass()).To(Equal(4))
			Expect(d.Cursor()).To(Equal(0))
		})
	})

	Describe("cooldown", func() {
		It("adds the sequence cooldown to the last step's delay", func() {
			seq := scenarioSequence()
			t := seq.Timing()
			t.Cooldown = 5 * time.Second
			d, clk = NewVirtualDriver(seq.WithTiming(t))
			d.SetVisible(true)

			clk.AdvanceTo(4750*ms + 600*ms + 5*time.Second - ms)
			Expect(d.Phase()).To(Equal(Cooldown))
			clk.Advance(ms)
			Expect(d.Cursor()).To(Equal(0))
			Expect(d.Completed()).To(BeEmpty())
		})

		It("waits one tick before restarting a pass that takes no time", func() {
			seq := script.MustNew("instant", []script.Step{
				{Kind: script.Success, Text: "Done"},
			}, script.Timing{TickInterval: 180 * ms})
			d, clk = NewVirtualDriver(seq)
			d.SetVisible(true)
			Expect(d.Phase()).To(Equal(Cooldown))
			Expect(clk.Pending()).To(Equal(1))

			clk.Advance(179 * ms)
			Expect(d.Pass()).To(Equal(1))
			clk.Advance(ms)
			Expect(d.Pass()).To(Equal(2))
			clk.Advance(180 * ms)
			Expect(d.Pass()).To(Equal(3))
			Expect(clk.Pending()).To(Equal(1))
		})

		It("ignores Start during cooldown", func() {
			d.SetVisible(true)
			clk.AdvanceTo(4800 * ms)
			d.Start()
			Expect(d.Phase()).To(Equal(Cooldown))
			Expect(d.Pass()).To(Equal(1))
		})
	})

	Describe("StepComplete", func() {
		BeforeEach(func() {
			d.SetVisible(true)
		})

		It("finishes the active step early", func() {
			d.StepComplete(0)
			Expect(d.Completed()).To(Equal([]int{0}))
			Expect(d.View().Lines[0].Text).To(Equal("git add ."))
			clk.Advance(400 * ms)
			Expect(d.Cursor()).To(Equal(1))
		})

		It("changes state only once for a repeated index", func() {
			d.StepComplete(0)
			after := d.View()
			d.StepComplete(0)
			Expect(d.View()).To(Equal(after))
			Expect(rec.count(EventStepCompleted)).To(Equal(1))
			clk.Advance(400 * ms)
			Expect(d.Cursor()).To(Equal(1))
			clk.Advance(180 * ms)
			Expect(d.Cursor()).To(Equal(1))
		})

		It("ignores indices that are not active", func() {
			d.StepComplete(1)
			d.StepComplete(-1)
			d.StepComplete(99)
			Expect(d.Completed()).To(BeEmpty())
			Expect(d.Cursor()).To(Equal(0))
		})

		It("always activates index+1 next", func() {
			seen := []int{}
			d.obs = ObserverFunc(func(e Event) {
				if e.Type == EventStepActivated && e.Pass == 1 {
					seen = append(seen, e.Index)
				}
			})
			clk.AdvanceTo(5 * time.Second)
			Expect(seen).To(Equal([]int{1, 2}))
		})
	})

	Describe("cancellation", func() {
		BeforeEach(func() {
			d.SetVisible(true)
		})

		It("discards further reveals when stopped mid-typing", func() {
			clk.Advance(120 * ms)
			d.Stop()
			Expect(d.Phase()).To(Equal(Idle))
			Expect(d.Cursor()).To(Equal(-1))
			Expect(d.Completed()).To(BeEmpty())
			Expect(clk.Pending()).To(Equal(0))

			framesBefore := len(rec.frames(1, 0))
			clk.Advance(10 * time.Second)
			Expect(rec.frames(1, 0)).To(HaveLen(framesBefore))
			Expect(d.Cursor()).To(Equal(-1))

			d.Start()
			Expect(d.Cursor()).To(Equal(0))
			Expect(d.View().Lines[0].Text).To(Equal(""))
		})

		It("leaves at most one wake-up pending per concern", func() {
			for i := 0; i < 200; i++ {
				clk.Advance(37 * ms)
				Expect(clk.Pending()).To(BeNumerically("<=", 1))
			}
		})

		It("does not auto-start again after stop", func() {
			clk.Advance(100 * ms)
			d.Stop()
			clk.Advance(time.Minute)
			Expect(d.Phase()).To(Equal(Idle))
		})

		It("ignores stale tokens", func() {
			clk.Advance(100 * ms)
			d.Fire(Token(1))
			d.Fire(Token(12345))
			Expect(rec.count(EventStaleToken)).To(Equal(2))
			Expect(d.View().Lines[0].Text).To(Equal("gi"))
		})
	})

	Describe("without a cancelling scheduler", func() {
		var queue []Token

		BeforeEach(func() {
			queue = nil
			sched := SchedulerFunc(func(_ time.Duration, tok Token) { queue = append(queue, tok) })
			d = NewDriver(scenarioSequence(), sched, WithObserver(rec))
		})

		It("drops tokens from a previous pass", func() {
			d.SetVisible(true)
			Expect(queue).To(HaveLen(1))
			stale := queue[0]

			d.Replay()
			d.Fire(stale)
			Expect(d.View().Lines[0].Text).To(Equal(""))
			Expect(rec.count(EventStaleToken)).To(Equal(1))
		})
	})

	Describe("Replay", func() {
		It("restarts from step 0 in the middle of a pass", func() {
			d.SetVisible(true)
			clk.AdvanceTo(3 * time.Second)
			Expect(d.Cursor()).To(Equal(1))

			d.Replay()
			Expect(d.Cursor()).To(Equal(0))
			Expect(d.Completed()).To(BeEmpty())
			Expect(d.Pass()).To(Equal(2))
			Expect(clk.Pending()).To(Equal(1))
		})

		It("stays idle when the surface is hidden", func() {
			d.Replay()
			Expect(d.Phase()).To(Equal(Idle))
		})
	})

	It("keeps exactly one step active throughout a pass", func() {
		d.SetVisible(true)
		for clk.Now() < 4750*ms {
			v := d.View()
			Expect(v.Phase).To(Equal(Active))
			Expect(v.Cursor).To(BeNumerically(">=", 0))
			for _, idx := range d.Completed() {
				Expect(idx).To(BeNumerically("<=", v.Cursor))
			}
			Expect(activeLines(v)).To(BeNumerically("<=", 1))
			Expect(clk.Step()).To(BeTrue())
		}
	})
})
