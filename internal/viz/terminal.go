package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/termdemo/internal/replay"
	"github.com/san-kum/termdemo/internal/script"
)

const (
	blinkInterval = 530 * time.Millisecond
	windowWidth   = 64
)

// TokenMsg carries a driver wake-up back into the event loop.
type TokenMsg replay.Token

type blinkMsg struct{}

// cmdScheduler turns driver wake-ups into tea commands. Pending commands are
// collected during Update and returned as one batch.
type cmdScheduler struct {
	cmds []tea.Cmd
}

func (s *cmdScheduler) After(d time.Duration, tok replay.Token) {
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg { return TokenMsg(tok) }))
}

func (s *cmdScheduler) flush() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmd := tea.Batch(s.cmds...)
	s.cmds = nil
	return cmd
}

// Model is the Bubble Tea model for the terminal window.
type Model struct {
	driver   *replay.Driver
	sched    *cmdScheduler
	theme    Theme
	styles   Styles
	width    int
	sized    bool
	caretOn  bool
	showHelp bool
	quitting bool
}

// NewModel builds a model for seq. The driver starts hidden; the first
// window size or focus message makes it visible.
func NewModel(seq *script.Sequence, theme Theme, opts ...replay.Option) Model {
	sched := &cmdScheduler{}
	return Model{
		driver:  replay.NewDriver(seq, sched, opts...),
		sched:   sched,
		theme:   theme,
		styles:  NewStyles(theme),
		width:   windowWidth,
		caretOn: true,
	}
}

// Driver exposes the underlying driver, mainly for tests.
func (m Model) Driver() *replay.Driver { return m.driver }

func (m Model) Init() tea.Cmd {
	return tea.Tick(blinkInterval, func(time.Time) tea.Msg { return blinkMsg{} })
}

// Update routes messages to the driver and returns any wake-ups it scheduled.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 4 && msg.Width-4 < windowWidth {
			m.width = msg.Width - 4
		} else {
			m.width = windowWidth
		}
		if !m.sized {
			m.sized = true
			m.driver.SetVisible(true)
		}
	case tea.FocusMsg:
		m.driver.SetVisible(true)
	case tea.BlurMsg:
		m.driver.SetVisible(false)
	case TokenMsg:
		m.driver.Fire(replay.Token(msg))
	case blinkMsg:
		m.caretOn = !m.caretOn
		cmds = append(cmds, m.Init())
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.driver.Stop()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Replay):
			m.driver.SetVisible(true)
			m.driver.Replay()
		case key.Matches(msg, keys.Visible):
			m.driver.SetVisible(!m.driver.Visible())
		case key.Matches(msg, keys.Theme):
			m.theme = NextTheme(m.theme)
			m.styles = NewStyles(m.theme)
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	cmds = append(cmds, m.sched.flush())
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	v := m.driver.View()

	var b strings.Builder
	b.WriteString(m.styles.Window.Width(m.width).Render(m.titleBar(v) + "\n" + m.body(v)))
	b.WriteString("\n")
	b.WriteString(m.status(v))
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.styles.helpLine(keys.full()))
	} else {
		b.WriteString(m.styles.helpLine(keys.short()))
	}
	return b.String()
}

func (m Model) titleBar(v replay.View) string {
	dots := m.styles.Dot.Render("● ● ●")
	title := v.Title
	if title == "" {
		title = "terminal"
	}
	left := dots + "  " + m.styles.Title.Render(title)
	right := m.styles.Replay.Render("replay")
	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.styles.TitleBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) body(v replay.View) string {
	var lines []string
	if v.Idle() {
		lines = append(lines, m.styles.Prompt.Render(v.Prompt)+" "+m.caret())
	}
	for _, l := range v.Lines {
		lines = append(lines, m.line(v.Prompt, l))
	}
	for len(lines) < minBodyLines {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (m Model) line(prompt string, l replay.Line) string {
	s := m.styles
	switch l.Kind {
	case script.Command:
		out := s.Prompt.Render(prompt) + " " + s.Command.Render(l.Text)
		if l.Active {
			out += m.caret()
		}
		return out
	case script.Progress:
		return s.Progress.Render(l.Text)
	case script.Announcement:
		text := s.BoxText.Render(l.Text)
		if l.Active {
			text = s.Entering.Render(l.Text)
		}
		return s.Box.Render(text)
	case script.Success:
		if l.Active {
			return s.Success.Foreground(m.theme.Faint).Render(checkGlyph + " " + l.Text)
		}
		return s.Success.Render(checkGlyph + " " + l.Text)
	case script.Output:
		if l.Active {
			return s.Output.Foreground(m.theme.Faint).Render(l.Text)
		}
		return s.Output.Render(l.Text)
	}
	return l.Text
}

func (m Model) caret() string {
	if !m.caretOn {
		return " "
	}
	return m.styles.Caret.Render(caretGlyph)
}

func (m Model) status(v replay.View) string {
	vis := "visible"
	if !m.driver.Visible() {
		vis = "hidden"
	}
	step := "-"
	if v.Cursor >= 0 {
		step = fmt.Sprintf("%d/%d", v.Cursor+1, m.driver.Sequence().Len())
	}
	return m.styles.Status.Render(fmt.Sprintf("%s · pass %d · step %s · %s · %s", v.Phase, v.Pass, step, vis, m.theme.Name))
}

// Run plays seq in the terminal until the user quits.
func Run(seq *script.Sequence, theme Theme, opts ...replay.Option) error {
	p := tea.NewProgram(NewModel(seq, theme, opts...), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
