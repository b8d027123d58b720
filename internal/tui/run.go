package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/smartthermo/internal/menu"
)

// Run starts the interactive menu in the alternate screen and blocks until
// the user leaves it. reloads, if non-nil, delivers the outcome of config
// file reloads to the running program.
func Run(engine *menu.Engine, display *Display, reloads <-chan error) (Model, error) {
	p := tea.NewProgram(NewModel(engine, display), tea.WithAltScreen())

	if reloads != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case err := <-reloads:
					p.Send(ConfigReloadedMsg{Err: err})
				case <-done:
					return
				}
			}
		}()
	}

	final, err := p.Run()
	if err != nil {
		return Model{}, fmt.Errorf("menu UI failed: %w", err)
	}
	return final.(Model), nil
}

// RunScript feeds actions to engine without a terminal and writes the
// display after each one, for scripted use and demos. It stops early when
// the menu exits and returns the last outcome.
func RunScript(engine *menu.Engine, display *Display, actions []menu.Action, w io.Writer) (menu.Outcome, error) {
	engine.Render()
	if err := writeFrame(w, "START", display); err != nil {
		return menu.Unchanged, err
	}

	out := menu.Unchanged
	for _, a := range actions {
		out = engine.Dispatch(a)
		if err := writeFrame(w, fmt.Sprintf("%s (%s)", a, out), display); err != nil {
			return out, err
		}
		if out == menu.Exit {
			break
		}
	}
	return out, nil
}

func writeFrame(w io.Writer, heading string, display *Display) error {
	_, err := fmt.Fprintf(w, "-- %s\n%s\n", heading, display.String())
	return err
}
