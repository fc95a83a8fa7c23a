package viz

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	caretGlyph   = "▋"
	checkGlyph   = "✓"
	minBodyLines = 6
)

// Styles is the set of lipgloss styles derived from a Theme.
type Styles struct {
	Window    lipgloss.Style
	TitleBar  lipgloss.Style
	Dot       lipgloss.Style
	Title     lipgloss.Style
	Replay    lipgloss.Style
	Prompt    lipgloss.Style
	Command   lipgloss.Style
	Caret     lipgloss.Style
	Progress  lipgloss.Style
	Box       lipgloss.Style
	BoxText   lipgloss.Style
	Success   lipgloss.Style
	Output    lipgloss.Style
	Entering  lipgloss.Style
	Status    lipgloss.Style
	KeyHint   lipgloss.Style
	KeyAction lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Window: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		TitleBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border).
			Padding(0, 1),
		Dot:       lipgloss.NewStyle().Foreground(t.Faint),
		Title:     lipgloss.NewStyle().Foreground(t.Muted),
		Replay:    lipgloss.NewStyle().Foreground(t.Muted).Underline(true),
		Prompt:    lipgloss.NewStyle().Foreground(t.Prompt),
		Command:   lipgloss.NewStyle().Foreground(t.Text),
		Caret:     lipgloss.NewStyle().Foreground(t.Caret),
		Progress:  lipgloss.NewStyle().Foreground(t.Muted).PaddingLeft(2),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Highlight).Padding(0, 1).MarginLeft(2),
		BoxText:   lipgloss.NewStyle().Foreground(t.Accent),
		Success:   lipgloss.NewStyle().Foreground(t.Success).PaddingLeft(2),
		Output:    lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(2),
		Entering:  lipgloss.NewStyle().Foreground(t.Faint),
		Status:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		KeyHint:   lipgloss.NewStyle().Foreground(t.Muted),
		KeyAction: lipgloss.NewStyle().Foreground(t.Faint).Italic(true),
	}
}
