// Package setup builds the device's configuration menu on top of the
// config store.
package setup

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/logging"
	"github.com/muurk/smartthermo/internal/menu"
)

//go:embed schema.yaml
var defaultSchema []byte

// Action names usable from a menu schema
const (
	ActionAutoTune = "autotune"
	ActionSaveExit = "save_exit"
	ActionExit     = "exit"
)

// ErrAutoTuneUnavailable is reported by "Auto tune PID" when no tuner is
// attached, as is the case when the menu runs outside the thermostat loop.
var ErrAutoTuneUnavailable = errors.New("not available in setup mode")

// Store is what the setup menu needs from the config store.
type Store interface {
	menu.Binding
	Save() error
}

// Result records how the menu was left.
type Result int

const (
	// ResultNone means no exit action has run yet
	ResultNone Result = iota
	// ResultSaved means "Save and Exit" wrote the configuration
	ResultSaved
	// ResultDiscarded means "Exit" dropped unsaved changes
	ResultDiscarded
)

// String returns a short description of the result.
func (r Result) String() string {
	switch r {
	case ResultNone:
		return "none"
	case ResultSaved:
		return "saved"
	case ResultDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// App is the setup menu: the schema, its actions, and the store they act on.
type App struct {
	store    Store
	autoTune menu.ActionFunc
	schema   []byte
	result   Result
}

// Option configures an App.
type Option func(*App)

// WithAutoTune attaches the PID auto-tuner run by "Auto tune PID".
func WithAutoTune(fn menu.ActionFunc) Option {
	return func(a *App) {
		a.autoTune = fn
	}
}

// WithSchema replaces the built-in menu schema.
func WithSchema(data []byte) Option {
	return func(a *App) {
		a.schema = data
	}
}

// WithSchemaFile loads the menu schema from a YAML file.
func WithSchemaFile(path string) (Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu schema: %w", err)
	}
	return WithSchema(data), nil
}

// New creates the setup app for store.
func New(store Store, opts ...Option) *App {
	a := &App{
		store:  store,
		schema: defaultSchema,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultSchema returns the built-in menu schema.
func DefaultSchema() []byte {
	return append([]byte(nil), defaultSchema...)
}

// Result reports which exit action ended the menu, if any.
func (a *App) Result() Result {
	return a.result
}

// Actions returns the action table schemas are resolved against.
func (a *App) Actions() map[string]menu.ActionFunc {
	return map[string]menu.ActionFunc{
		ActionAutoTune: a.runAutoTune,
		ActionSaveExit: a.saveAndExit,
		ActionExit:     a.exitWithoutSave,
	}
}

// Build parses the schema and builds the menu tree from the store's
// current values.
func (a *App) Build() (*menu.Node, error) {
	schema, err := menu.ParseSchema(a.schema, a.Actions())
	if err != nil {
		return nil, err
	}
	return schema.Build(a.store)
}

// Engine builds the tree and wraps it in an engine that renders to r.
func (a *App) Engine(r menu.Renderer) (*menu.Engine, error) {
	root, err := a.Build()
	if err != nil {
		return nil, err
	}
	return menu.New(root, a.store, r)
}

func (a *App) runAutoTune() error {
	if a.autoTune == nil {
		return ErrAutoTuneUnavailable
	}
	logging.Info("Starting PID auto-tune from setup menu")
	return a.autoTune()
}

// saveAndExit persists the configuration and leaves the menu. A failed save
// keeps the menu open so the user can retry or exit without saving.
func (a *App) saveAndExit() error {
	if err := a.store.Save(); err != nil {
		logging.Error("Failed to save configuration from setup menu", zap.Error(err))
		return err
	}
	logging.Info("Configuration saved from setup menu")
	a.result = ResultSaved
	return menu.ErrExit
}

// exitWithoutSave discards unsaved changes and leaves the menu.
func (a *App) exitWithoutSave() error {
	if err := a.store.Reload(); err != nil {
		logging.Warn("Failed to discard unsaved changes", zap.Error(err))
		return err
	}
	logging.Info("Leaving setup menu without saving")
	a.result = ResultDiscarded
	return menu.ErrExit
}
