package script

import (
	"fmt"
	"sort"
	"time"
)

const ms = time.Millisecond

var Presets = map[string]*Sequence{
	"inyeon": MustNew("inyeon", []Step{
		{Kind: Command, Text: "git add .", PostDelay: 300 * ms},
		{Kind: Command, Text: "inyeon commit --staged", PostDelay: 1800 * ms},
		{Kind: Progress, Text: "Analyzing changes...", PostDelay: 100 * ms},
		{Kind: Announcement, Text: "feat(auth): add session timeout and type hints", PostDelay: 600 * ms},
		{Kind: Success, Text: "Commit created"},
	}, DefaultTiming()).WithTitle("terminal"),

	"quickstart": MustNew("quickstart", []Step{
		{Kind: Command, Text: "git add .", PostDelay: 400 * ms},
		{Kind: Progress, Text: "Analyzing...", PostDelay: 1800 * ms},
		{Kind: Success, Text: "Done", PostDelay: 600 * ms},
	}, DefaultTiming()).WithTitle("terminal"),

	"review": MustNew("review", []Step{
		{Kind: Command, Text: "inyeon review --branch main", PostDelay: 300 * ms},
		{Kind: Progress, Text: "Reading diff...", PostDelay: 200 * ms},
		{Kind: Output, Text: "3 files changed, 42 insertions(+), 7 deletions(-)", PostDelay: 300 * ms},
		{Kind: Announcement, Text: "auth/session.go:88 timeout is never reset after refresh", PostDelay: 500 * ms},
		{Kind: Success, Text: "Review complete", PostDelay: 400 * ms},
	}, DefaultTiming()).WithTitle("review"),

	"split": MustNew("split", []Step{
		{Kind: Command, Text: "inyeon split --staged", PostDelay: 300 * ms},
		{Kind: Progress, Text: "Grouping hunks...", PostDelay: 200 * ms},
		{Kind: Output, Text: "feat(api): add pagination to list endpoints", PostDelay: 150 * ms},
		{Kind: Output, Text: "fix(db): close rows on early return", PostDelay: 150 * ms},
		{Kind: Output, Text: "docs: describe pagination parameters", PostDelay: 300 * ms},
		{Kind: Success, Text: "3 commits created", PostDelay: 400 * ms},
	}, DefaultTiming()).WithTitle("split"),
}

// DefaultPreset is played when no script is given.
const DefaultPreset = "inyeon"

// GetPreset returns a bundled sequence by name.
func GetPreset(name string) (*Sequence, error) {
	s, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return s, nil
}

// ListPresets returns the bundled preset names in order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
