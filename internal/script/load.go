package script

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML form of a Sequence. Durations are integer
// milliseconds; omitted timing fields fall back to the defaults.
type File struct {
	Name           string     `yaml:"name"`
	Title          string     `yaml:"title,omitempty"`
	Prompt         string     `yaml:"prompt,omitempty"`
	CooldownMs     *int       `yaml:"cooldown_ms,omitempty"`
	StartDelayMs   *int       `yaml:"start_delay_ms,omitempty"`
	TypeIntervalMs *int       `yaml:"type_interval_ms,omitempty"`
	TickIntervalMs *int       `yaml:"tick_interval_ms,omitempty"`
	Ticks          *int       `yaml:"ticks,omitempty"`
	EntranceMs     *int       `yaml:"entrance_ms,omitempty"`
	Steps          []FileStep `yaml:"steps"`
}

type FileStep struct {
	Kind        Kind   `yaml:"kind"`
	Text        string `yaml:"text"`
	PostDelayMs int    `yaml:"post_delay_ms"`
}

// Load reads a script from a YAML file.
func Load(path string) (*Sequence, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	seq, notes, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, notes, nil
}

// Parse decodes a YAML script. The returned notes describe values that were
// clamped or defaulted; they are informational only.
func Parse(data []byte) (*Sequence, []string, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, err
	}
	return f.Sequence()
}

// Sequence converts the file form into a validated Sequence.
func (f *File) Sequence() (*Sequence, []string, error) {
	var notes []string
	millis := func(field string, v *int, def time.Duration) time.Duration {
		if v == nil {
			return def
		}
		if *v < 0 {
			notes = append(notes, fmt.Sprintf("%s %d clamped to 0", field, *v))
			return 0
		}
		return time.Duration(*v) * time.Millisecond
	}
	// Intervals and the tick count must be positive.
	interval := func(field string, v *int, def time.Duration) time.Duration {
		if v != nil && *v <= 0 {
			notes = append(notes, fmt.Sprintf("%s %d reset to default %d", field, *v, def.Milliseconds()))
			return def
		}
		return millis(field, v, def)
	}

	timing := DefaultTiming()
	timing.Cooldown = millis("cooldown_ms", f.CooldownMs, timing.Cooldown)
	timing.StartDelay = millis("start_delay_ms", f.StartDelayMs, timing.StartDelay)
	timing.TypeInterval = interval("type_interval_ms", f.TypeIntervalMs, timing.TypeInterval)
	timing.TickInterval = interval("tick_interval_ms", f.TickIntervalMs, timing.TickInterval)
	timing.Entrance = millis("entrance_ms", f.EntranceMs, timing.Entrance)
	if f.Ticks != nil {
		if *f.Ticks <= 0 {
			notes = append(notes, fmt.Sprintf("ticks %d reset to default %d", *f.Ticks, timing.Ticks))
		} else {
			timing.Ticks = *f.Ticks
		}
	}

	steps := make([]Step, len(f.Steps))
	for i, fs := range f.Steps {
		delay := fs.PostDelayMs
		if delay < 0 {
			notes = append(notes, fmt.Sprintf("step %d post_delay_ms %d clamped to 0", i, delay))
			delay = 0
		}
		steps[i] = Step{Kind: fs.Kind, Text: fs.Text, PostDelay: time.Duration(delay) * time.Millisecond}
	}

	name := f.Name
	if name == "" {
		name = "untitled"
	}
	seq, err := New(name, steps, timing)
	if err != nil {
		return nil, notes, err
	}
	if seq.instant() {
		notes = append(notes, fmt.Sprintf("pass takes no time; restart waits tick_interval_ms %d", seq.Timing().TickInterval.Milliseconds()))
	}
	return seq.WithTitle(f.Title).WithPrompt(f.Prompt), notes, nil
}

// ToFile converts a Sequence back to its YAML form.
func ToFile(s *Sequence) *File {
	t := s.Timing()
	toMs := func(d time.Duration) *int {
		v := int(d / time.Millisecond)
		return &v
	}
	ticks := t.Ticks
	f := &File{
		Name:           s.Name(),
		Title:          s.Title(),
		Prompt:         s.Prompt(),
		CooldownMs:     toMs(t.Cooldown),
		StartDelayMs:   toMs(t.StartDelay),
		TypeIntervalMs: toMs(t.TypeInterval),
		TickIntervalMs: toMs(t.TickInterval),
		Ticks:          &ticks,
		EntranceMs:     toMs(t.Entrance),
	}
	for _, st := range s.Steps() {
		f.Steps = append(f.Steps, FileStep{
			Kind:        st.Kind,
			Text:        st.Text,
			PostDelayMs: int(st.PostDelay / time.Millisecond),
		})
	}
	return f
}

// Marshal encodes s as a YAML script.
func Marshal(s *Sequence) ([]byte, error) {
	return yaml.Marshal(ToFile(s))
}

// Save writes s as YAML.
func Save(path string, s *Sequence) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
