package menu

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var errNotFound = errors.New("no such path")

// fakeBinding is an in-memory Binding that records every Set.
type fakeBinding struct {
	values  map[string]interface{}
	saved   map[string]interface{}
	sets    []setCall
	setErr  map[string]error
	getErr  map[string]error
	reloads int
}

type setCall struct {
	Path  string
	Value interface{}
}

func newFakeBinding(values map[string]interface{}) *fakeBinding {
	saved := make(map[string]interface{}, len(values))
	for k, v := range values {
		saved[k] = v
	}
	return &fakeBinding{
		values: values,
		saved:  saved,
		setErr: make(map[string]error),
		getErr: make(map[string]error),
	}
}

func (b *fakeBinding) Get(path string) (interface{}, error) {
	if err := b.getErr[path]; err != nil {
		return nil, err
	}
	v, ok := b.values[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, errNotFound)
	}
	return v, nil
}

func (b *fakeBinding) Set(path string, value interface{}) error {
	b.sets = append(b.sets, setCall{Path: path, Value: value})
	if err := b.setErr[path]; err != nil {
		return err
	}
	b.values[path] = value
	return nil
}

func (b *fakeBinding) Reload() error {
	b.reloads++
	b.values = make(map[string]interface{}, len(b.saved))
	for k, v := range b.saved {
		b.values[k] = v
	}
	return nil
}

func (b *fakeBinding) lastSet(t *testing.T) setCall {
	t.Helper()
	if len(b.sets) == 0 {
		t.Fatal("expected a Set call, got none")
	}
	return b.sets[len(b.sets)-1]
}

// recorder is a Renderer that keeps every view it was given.
type recorder struct {
	views []View
}

func (r *recorder) Render(v View) {
	r.views = append(r.views, v)
}

func (r *recorder) last(t *testing.T) View {
	t.Helper()
	if len(r.views) == 0 {
		t.Fatal("expected a render, got none")
	}
	return r.views[len(r.views)-1]
}

// deviceValues mirrors the factory settings used by the setup menu.
func deviceValues() map[string]interface{} {
	return map[string]interface{}{
		"wifi.mode":              "AP",
		"wifi.ap_credentials.ip": "192.168.4.1",
		"preferences.laser":      false,
		"preferences.refresh":    500,
		"thermostat.target":      50,
		"thermostat.p":           1.0,
	}
}

func deviceDescriptors() []Descriptor {
	return []Descriptor{
		{Kind: KindLevel, Label: "Wifi", Children: []Descriptor{
			{Kind: KindList, Label: "Mode", Path: "wifi.mode", Options: []string{"Off", "AP", "STA", "BOTH"}},
			{Kind: KindIP, Label: "AP IP", Path: "wifi.ap_credentials.ip"},
		}},
		{Kind: KindLevel, Label: "Preferences", Children: []Descriptor{
			{Kind: KindBool, Label: "Laser", Path: "preferences.laser"},
			{Kind: KindInt, Label: "Refresh", Path: "preferences.refresh", Min: 50, Max: 1000, Step: 50},
		}},
		{Kind: KindLevel, Label: "Thermostat", Children: []Descriptor{
			{Kind: KindInt, Label: "Target", Path: "thermostat.target", Min: 0, Max: 150, Step: 1},
			{Kind: KindFloat, Label: "P", Path: "thermostat.p", Min: 0, Max: 10, Step: 0.1},
		}},
		{Kind: KindLabel, Label: "---"},
	}
}

// newTestEngine builds the device tree over a fake binding.
func newTestEngine(t *testing.T) (*Engine, *fakeBinding, *recorder) {
	t.Helper()
	b := newFakeBinding(deviceValues())
	root, err := Build(b, deviceDescriptors())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	r := &recorder{}
	e, err := New(root, b, r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e, b, r
}

// press dispatches a comma-separated key sequence and returns the last outcome.
func press(t *testing.T, e *Engine, keys string) Outcome {
	t.Helper()
	actions, err := ParseActions(keys)
	if err != nil {
		t.Fatalf("ParseActions(%q) error = %v", keys, err)
	}
	out := Unchanged
	for _, a := range actions {
		out = e.Dispatch(a)
	}
	return out
}

func selectedLabel(e *Engine) string {
	if n := e.Selected(); n != nil {
		return n.Label
	}
	return ""
}

func pathString(e *Engine) string {
	return strings.Join(e.Stack().Labels(), "/")
}
