package trace

import (
	"github.com/san-kum/termdemo/internal/replay"
	"github.com/san-kum/termdemo/internal/script"
)

const caret = "▋"

// Lines renders a view as plain terminal lines without styling.
func Lines(v replay.View) []string {
	if v.Idle() {
		return []string{v.Prompt + " " + caret}
	}
	out := make([]string, 0, len(v.Lines))
	for _, l := range v.Lines {
		out = append(out, plainLine(v.Prompt, l))
	}
	return out
}

func plainLine(prompt string, l replay.Line) string {
	switch l.Kind {
	case script.Command:
		s := prompt + " " + l.Text
		if l.Active {
			s += caret
		}
		return s
	case script.Progress:
		return "  " + l.Text
	case script.Announcement:
		return "  [ " + l.Text + " ]"
	case script.Success:
		return "  ✓ " + l.Text
	case script.Output:
		return "  " + l.Text
	}
	return l.Text
}
