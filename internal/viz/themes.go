package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the terminal window.
type Theme struct {
	Name      string
	Prompt    lipgloss.Color
	Caret     lipgloss.Color
	Accent    lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Faint     lipgloss.Color
	Success   lipgloss.Color
	Highlight lipgloss.Color
}

// Available themes
var (
	ThemeAurora = Theme{
		Name:      "aurora",
		Prompt:    lipgloss.Color("#a78bfa"), // Purple
		Caret:     lipgloss.Color("#22d3ee"), // Cyan
		Accent:    lipgloss.Color("#22d3ee"),
		Border:    lipgloss.Color("#3f3f46"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#71717a"),
		Faint:     lipgloss.Color("#3f3f46"),
		Success:   lipgloss.Color("#34d399"), // Green
		Highlight: lipgloss.Color("#a78bfa"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Prompt:    lipgloss.Color("#ff00ff"), // Magenta
		Caret:     lipgloss.Color("#00ffff"), // Cyan
		Accent:    lipgloss.Color("#ffff00"), // Yellow
		Border:    lipgloss.Color("#444466"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Faint:     lipgloss.Color("#333333"),
		Success:   lipgloss.Color("#00ff00"),
		Highlight: lipgloss.Color("#ff00ff"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Prompt:    lipgloss.Color("#00ff00"), // Green phosphor
		Caret:     lipgloss.Color("#88ff88"),
		Accent:    lipgloss.Color("#88ff88"),
		Border:    lipgloss.Color("#005500"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#00aa00"),
		Faint:     lipgloss.Color("#003300"),
		Success:   lipgloss.Color("#88ff88"),
		Highlight: lipgloss.Color("#00cc00"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Prompt:    lipgloss.Color("#cccccc"),
		Caret:     lipgloss.Color("#ffffff"),
		Accent:    lipgloss.Color("#0088ff"),
		Border:    lipgloss.Color("#888888"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Faint:     lipgloss.Color("#444444"),
		Success:   lipgloss.Color("#00ff00"),
		Highlight: lipgloss.Color("#0088ff"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Prompt:    lipgloss.Color("#0077be"), // Ocean blue
		Caret:     lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Border:    lipgloss.Color("#4488aa"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Faint:     lipgloss.Color("#1a3a55"),
		Success:   lipgloss.Color("#00ff88"),
		Highlight: lipgloss.Color("#00a8cc"),
	}

	// All available themes
	Themes = []Theme{
		ThemeAurora,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to aurora.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeAurora
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
