package replay

import "github.com/san-kum/termdemo/internal/script"

// Phase is the driver's state tag.
type Phase int

const (
	Idle Phase = iota
	Active
	Cooldown
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Cooldown:
		return "cooldown"
	}
	return "unknown"
}

// Line is one visible terminal line. Active is true while the step is still
// rendering, which is when a view shows a caret or entrance transition.
type Line struct {
	Index  int
	Kind   script.Kind
	Text   string
	Active bool
}

// View is the render output handed to the view layer.
type View struct {
	Title   string
	Prompt  string
	Phase   Phase
	Cursor  int
	Running bool
	Pass    int
	Lines   []Line
}

// Idle reports whether nothing has started, which views draw as an empty
// prompt with a blinking caret.
func (v View) Idle() bool { return v.Cursor < 0 }
