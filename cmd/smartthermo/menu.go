package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/smartthermo/internal/config"
	"github.com/muurk/smartthermo/internal/menu"
	"github.com/muurk/smartthermo/internal/setup"
	"github.com/muurk/smartthermo/internal/tui"
)

// Menu command flags
var (
	menuKeys   string
	menuSchema string
	menuWatch  bool
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the setup menu",
	Long: `Open the thermometer's setup menu in the terminal.

The arrow keys (or h/j/k/l) stand in for the device's UP, DOWN, LEFT and
RIGHT buttons, and space stands in for FIRE. Changes are kept in memory
until "Save and Exit" writes them to the config file; "Exit" discards them.

With --keys the menu runs without a terminal: the given buttons are pressed
in order and the display is printed after each one.`,
	Example: `  # Interactive menu
  smartthermo menu

  # Set the thermostat target to 51 and save, printing each screen
  smartthermo menu --keys "down,down,right,down,right,up,right,left,down,down,down,right"

  # Use a custom menu layout
  smartthermo menu --schema ./menu.yaml`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&menuKeys, "keys", "", "Comma-separated buttons to press (up, down, left, right, fire) instead of reading the keyboard")
	menuCmd.Flags().StringVar(&menuSchema, "schema", "", "Menu schema YAML file (default: built-in setup menu)")
	menuCmd.Flags().BoolVar(&menuWatch, "watch", true, "Refresh the menu when the config file changes on disk")

	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	store, err := openStore(false)
	if err != nil {
		return err
	}

	var opts []setup.Option
	if menuSchema != "" {
		opt, err := setup.WithSchemaFile(menuSchema)
		if err != nil {
			return err
		}
		opts = append(opts, opt)
	}

	app := setup.New(store, opts...)
	display := tui.NewDisplay()
	engine, err := app.Engine(display)
	if err != nil {
		return fmt.Errorf("failed to build menu: %w", err)
	}

	if menuKeys != "" {
		return runScriptedMenu(cmd.OutOrStdout(), engine, display, app)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the setup menu needs a terminal; use --keys to script it")
	}

	var reloads chan error
	if menuWatch {
		reloads = make(chan error, 1)
		watcher, err := config.NewWatcher(store, 0, func(err error) {
			select {
			case reloads <- err:
			default:
			}
		})
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	model, err := tui.Run(engine, display, reloads)
	if err != nil {
		return err
	}

	printMenuResult(cmd.OutOrStdout(), app.Result(), model.Quit && store.Dirty())
	return nil
}

func runScriptedMenu(w io.Writer, engine *menu.Engine, display *tui.Display, app *setup.App) error {
	actions, err := menu.ParseActions(menuKeys)
	if err != nil {
		return err
	}

	out, err := tui.RunScript(engine, display, actions, w)
	if err != nil {
		return err
	}
	if out == menu.Exit {
		printMenuResult(w, app.Result(), false)
	}
	return nil
}

func printMenuResult(w io.Writer, result setup.Result, unsaved bool) {
	switch {
	case result == setup.ResultSaved:
		fmt.Fprintln(w, "Configuration saved.")
	case result == setup.ResultDiscarded:
		fmt.Fprintln(w, "Changes discarded.")
	case unsaved:
		fmt.Fprintln(w, "Menu closed with unsaved changes; the config file was not modified.")
	}
}
