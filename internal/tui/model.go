package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/logging"
	"github.com/muurk/smartthermo/internal/menu"
)

// ConfigReloadedMsg tells the model the config changed underneath it, e.g.
// after the config file was edited by another process. A non-nil Err means
// the change was not applied (see config.IsConflict); it is shown on the
// display and the menu state is kept.
type ConfigReloadedMsg struct {
	Err error
}

// keyMap maps keyboard keys onto the device's five buttons
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Fire  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Fire, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Fire, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "backspace"),
			key.WithHelp("←/h", "back"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "enter"),
			key.WithHelp("→/l", "select"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" ", "space", "f"),
			key.WithHelp("space/f", "fire"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the Bubble Tea model driving a menu engine from the keyboard.
// The engine must render to display.
type Model struct {
	engine  *menu.Engine
	display *Display
	keys    keyMap
	help    help.Model

	Width  int
	Height int

	// Exited is set when the menu asked to exit (LEFT at the root or an
	// exit action); Quit is set when the user quit with q/ctrl+c.
	Exited bool
	Quit   bool
}

// NewModel creates a model for engine, which must render to display.
func NewModel(engine *menu.Engine, display *Display) Model {
	return Model{
		engine:  engine,
		display: display,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init draws the first frame.
func (m Model) Init() tea.Cmd {
	m.engine.Render()
	return nil
}

// Update handles key presses, window resizes and config reloads.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.engine.Report(msg.Err)
			return m, nil
		}
		if err := m.engine.Refresh(); err != nil {
			logging.Warn("Some menu fields are unavailable after reload", zap.Error(err))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.Quit = true
			return m, tea.Quit
		}

		action, ok := m.actionFor(msg)
		if !ok {
			return m, nil
		}
		if m.engine.Dispatch(action) == menu.Exit {
			m.Exited = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) actionFor(msg tea.KeyMsg) (menu.Action, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return menu.Up, true
	case key.Matches(msg, m.keys.Down):
		return menu.Down, true
	case key.Matches(msg, m.keys.Left):
		return menu.Left, true
	case key.Matches(msg, m.keys.Right):
		return menu.Right, true
	case key.Matches(msg, m.keys.Fire):
		return menu.Fire, true
	}
	return 0, false
}

// View draws the header, the emulated display and the key help.
func (m Model) View() string {
	if m.Exited || m.Quit {
		return ""
	}

	v := m.display.View()
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(AppName))
	b.WriteString(" ")
	b.WriteString(VersionStyle.Render(AppVersion()))
	b.WriteString("\n")
	b.WriteString(BreadcrumbStyle.Render(strings.Join(v.Path, " › ")))
	b.WriteString("\n")

	rows := make([]string, 0, m.display.Rows)
	for _, line := range m.display.Lines() {
		rows = append(rows, m.styleRow(line))
	}
	for len(rows) < m.display.Rows {
		rows = append(rows, "")
	}
	b.WriteString(ScreenStyle(m.display.Columns).Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	if v.Message != "" {
		b.WriteString(MessageStyle.Render("! " + v.Message))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) styleRow(line string) string {
	switch {
	case strings.HasPrefix(line, "*"), strings.Contains(line, "["):
		return EditRowStyle.Render(line)
	case strings.HasPrefix(line, ">"):
		return CursorRowStyle.Render(line)
	default:
		return RowStyle.Render(line)
	}
}

// Engine returns the engine driven by the model.
func (m Model) Engine() *menu.Engine {
	return m.engine
}
