package script

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind tags a step with the renderer that reveals it.
type Kind int

const (
	Command Kind = iota
	Progress
	Announcement
	Success
	Output
)

var kindNames = [...]string{
	Command:      "command",
	Progress:     "progress",
	Announcement: "announcement",
	Success:      "success",
	Output:       "output",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a script keyword to a Kind. "box" is accepted as an alias
// for announcement.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "box" {
		return Announcement, nil
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Step is one scripted line of the demo.
type Step struct {
	Kind      Kind
	Text      string
	PostDelay time.Duration
}

// Label is the text a progress step shows while its dots are cycling.
func (s Step) Label() string {
	return strings.TrimRight(strings.TrimSpace(s.Text), ".…")
}

const (
	DefaultCooldown     = 5 * time.Second
	DefaultStartDelay   = 800 * time.Millisecond
	DefaultTypeInterval = 50 * time.Millisecond
	DefaultTickInterval = 180 * time.Millisecond
	DefaultTicks        = 10
	DefaultEntrance     = 300 * time.Millisecond
	DefaultPrompt       = "$"
)

// Timing groups the per-sequence pacing parameters.
type Timing struct {
	Cooldown     time.Duration
	StartDelay   time.Duration
	TypeInterval time.Duration
	TickInterval time.Duration
	Ticks        int
	Entrance     time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Cooldown:     DefaultCooldown,
		StartDelay:   DefaultStartDelay,
		TypeInterval: DefaultTypeInterval,
		TickInterval: DefaultTickInterval,
		Ticks:        DefaultTicks,
		Entrance:     DefaultEntrance,
	}
}

// Sequence is an immutable, ordered script. Build one with New or Load.
type Sequence struct {
	name   string
	title  string
	prompt string
	steps  []Step
	timing Timing
}

// New validates steps and timing and returns a Sequence. Negative durations
// are clamped to zero; the only errors are an empty step list and an
// unknown kind.
func New(name string, steps []Step, timing Timing) (*Sequence, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("sequence %q: %w", name, ErrEmptySequence)
	}
	cp := make([]Step, len(steps))
	for i, st := range steps {
		if st.Kind < 0 || int(st.Kind) >= len(kindNames) {
			return nil, fmt.Errorf("sequence %q step %d: %w: %d", name, i, ErrUnknownKind, int(st.Kind))
		}
		st.PostDelay = clamp(st.PostDelay)
		cp[i] = st
	}
	return &Sequence{
		name:   name,
		prompt: DefaultPrompt,
		steps:  cp,
		timing: normalize(timing),
	}, nil
}

// MustNew is New for package-level presets.
func MustNew(name string, steps []Step, timing Timing) *Sequence {
	s, err := New(name, steps, timing)
	if err != nil {
		panic(err)
	}
	return s
}

func normalize(t Timing) Timing {
	t.Cooldown = clamp(t.Cooldown)
	t.StartDelay = clamp(t.StartDelay)
	t.Entrance = clamp(t.Entrance)
	if t.TypeInterval <= 0 {
		t.TypeInterval = DefaultTypeInterval
	}
	if t.TickInterval <= 0 {
		t.TickInterval = DefaultTickInterval
	}
	if t.Ticks <= 0 {
		t.Ticks = DefaultTicks
	}
	return t
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

func (s *Sequence) Name() string   { return s.name }
func (s *Sequence) Title() string  { return s.title }
func (s *Sequence) Prompt() string { return s.prompt }
func (s *Sequence) Len() int       { return len(s.steps) }
func (s *Sequence) Timing() Timing { return s.timing }

// Step returns the i-th step. It panics on an out-of-range index like a
// slice access would.
func (s *Sequence) Step(i int) Step { return s.steps[i] }

// Steps returns a copy of the step list.
func (s *Sequence) Steps() []Step {
	cp := make([]Step, len(s.steps))
	copy(cp, s.steps)
	return cp
}

// WithTiming returns a copy of s using t.
func (s *Sequence) WithTiming(t Timing) *Sequence {
	cp := *s
	cp.timing = normalize(t)
	return &cp
}

// WithTitle returns a copy of s whose terminal window shows title.
func (s *Sequence) WithTitle(title string) *Sequence {
	cp := *s
	cp.title = title
	return &cp
}

// WithPrompt returns a copy of s that prefixes commands with prompt.
func (s *Sequence) WithPrompt(prompt string) *Sequence {
	cp := *s
	if prompt != "" {
		cp.prompt = prompt
	}
	return &cp
}

// PassDuration is the nominal length of one pass, from the first step
// activating to the restart, assuming the renderers' own pacing.
func (s *Sequence) PassDuration() time.Duration {
	return s.activeDuration() + s.RestartDelay()
}

// RestartDelay is the wait between the final step completing and the next
// pass: the last step's post delay plus the cooldown. A pass that would
// otherwise take no time at all waits one tick interval instead.
func (s *Sequence) RestartDelay() time.Duration {
	if s.instant() {
		return s.timing.TickInterval
	}
	return s.steps[len(s.steps)-1].PostDelay + s.timing.Cooldown
}

func (s *Sequence) instant() bool {
	return s.activeDuration() == 0 && s.steps[len(s.steps)-1].PostDelay+s.timing.Cooldown == 0
}

// activeDuration runs from the first step activating to the final step
// completing.
func (s *Sequence) activeDuration() time.Duration {
	var total time.Duration
	for i, st := range s.steps {
		total += s.RenderDuration(st)
		if i < len(s.steps)-1 {
			total += st.PostDelay
		}
	}
	return total
}

// RenderDuration is how long a step stays active before it completes.
func (s *Sequence) RenderDuration(st Step) time.Duration {
	switch st.Kind {
	case Command:
		return time.Duration(len([]rune(st.Text))) * s.timing.TypeInterval
	case Progress:
		return time.Duration(s.timing.Ticks) * s.timing.TickInterval
	case Announcement, Success, Output:
		return s.timing.Entrance
	}
	return 0
}
