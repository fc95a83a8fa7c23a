// Package trace records passes of a sequence on a virtual clock and stores
// them for listing, plotting and export.
package trace

import (
	"slices"
	"time"

	"github.com/san-kum/termdemo/internal/replay"
	"github.com/san-kum/termdemo/internal/script"
)

// Frame is the terminal contents from At until the next frame.
type Frame struct {
	At     time.Duration
	Pass   int
	Cursor int
	Phase  string
	Lines  []string
}

// Chars counts the visible runes on screen.
func (f Frame) Chars() int {
	n := 0
	for _, l := range f.Lines {
		n += len([]rune(l))
	}
	return n
}

// Record plays passes full passes starting from the visible edge and
// returns every distinct screen. The final frame is the restart into the
// pass after the last one recorded.
func Record(seq *script.Sequence, passes int) []Frame {
	if passes < 1 {
		passes = 1
	}
	d, clk := replay.NewVirtualDriver(seq)

	var frames []Frame
	snap := func() {
		v := d.View()
		f := Frame{At: clk.Now(), Pass: v.Pass, Cursor: v.Cursor, Phase: v.Phase.String(), Lines: Lines(v)}
		if n := len(frames); n > 0 && slices.Equal(frames[n-1].Lines, f.Lines) {
			return
		}
		frames = append(frames, f)
	}

	snap()
	d.SetVisible(true)
	snap()
	for d.Pass() <= passes && clk.Step() {
		snap()
	}
	d.Stop()
	return frames
}

// Duration is the time of the last frame.
func Duration(frames []Frame) time.Duration {
	if len(frames) == 0 {
		return 0
	}
	return frames[len(frames)-1].At
}

// Series samples the visible character count every interval, for plotting.
func Series(frames []Frame, interval time.Duration) []float64 {
	if len(frames) == 0 || interval <= 0 {
		return nil
	}
	end := Duration(frames)
	out := make([]float64, 0, int(end/interval)+1)
	i := 0
	for t := time.Duration(0); t <= end; t += interval {
		for i+1 < len(frames) && frames[i+1].At <= t {
			i++
		}
		out = append(out, float64(frames[i].Chars()))
	}
	return out
}
