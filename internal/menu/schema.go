package menu

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Descriptor describes one node of a menu schema. Only the fields relevant
// to Kind are read.
type Descriptor struct {
	Kind  Kind   `yaml:"kind"`
	Label string `yaml:"label"`

	// Path is the dotted config path of a field.
	Path string `yaml:"path,omitempty"`

	// Bounds and step of Int and Float fields.
	Min  float64 `yaml:"min,omitempty"`
	Max  float64 `yaml:"max,omitempty"`
	Step float64 `yaml:"step,omitempty"`

	// Options of a List field. When OptionsFrom names a list in the config,
	// its items (or each item's OptionsKey entry) are used instead, and
	// Options is only the fallback for an empty source list.
	Options     []string `yaml:"options,omitempty"`
	OptionsFrom string   `yaml:"options_from,omitempty"`
	OptionsKey  string   `yaml:"options_key,omitempty"`

	// Action is the callback of an Action node. Schemas loaded from YAML
	// name it with ActionName instead.
	Action     ActionFunc `yaml:"-"`
	ActionName string     `yaml:"action,omitempty"`

	// Children of a Level.
	Children []Descriptor `yaml:"children,omitempty"`
}

// Schema is a complete menu: a title and the root level's entries.
type Schema struct {
	Title string       `yaml:"title"`
	Items []Descriptor `yaml:"items"`
}

// DefaultTitle labels the root level built by Build.
const DefaultTitle = "Menu"

// UnmarshalYAML decodes a kind name.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes a kind by name.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// ParseSchema decodes a YAML schema and resolves action names against
// actions. An unknown action name is a schema error.
func ParseSchema(data []byte, actions map[string]ActionFunc) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, NewSchemaError("", fmt.Sprintf("invalid schema YAML: %v", err))
	}
	if err := resolveActions(s.Items, actions); err != nil {
		return nil, err
	}
	return &s, nil
}

func resolveActions(descs []Descriptor, actions map[string]ActionFunc) error {
	for i := range descs {
		d := &descs[i]
		if d.Kind == KindAction && d.Action == nil && d.ActionName != "" {
			fn, ok := actions[d.ActionName]
			if !ok {
				return NewSchemaError(d.Label, fmt.Sprintf("unknown action %q", d.ActionName))
			}
			d.Action = fn
		}
		if err := resolveActions(d.Children, actions); err != nil {
			return err
		}
	}
	return nil
}

// Build builds the schema's tree against binding.
func (s *Schema) Build(binding Binding) (*Node, error) {
	title := s.Title
	if title == "" {
		title = DefaultTitle
	}
	return buildRoot(binding, title, s.Items)
}

// Build builds a root Level from descriptors, reading every field's current
// value from binding. It fails with a schema error on the first descriptor
// that cannot be built: a path the binding cannot read, inconsistent bounds,
// a list without options, a stored value of the wrong type, an action
// without a callback, or an unknown kind.
func Build(binding Binding, descriptors []Descriptor) (*Node, error) {
	return buildRoot(binding, DefaultTitle, descriptors)
}

func buildRoot(binding Binding, title string, descriptors []Descriptor) (*Node, error) {
	root := &Node{Kind: KindLevel, Label: title}
	children, err := buildChildren(binding, descriptors)
	if err != nil {
		return nil, err
	}
	root.Children = children
	return root, nil
}

func buildChildren(binding Binding, descs []Descriptor) ([]*Node, error) {
	nodes := make([]*Node, 0, len(descs))
	for _, d := range descs {
		n, err := buildNode(binding, d)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func buildNode(binding Binding, d Descriptor) (*Node, error) {
	n := &Node{Kind: d.Kind, Label: d.Label, Path: d.Path}

	switch d.Kind {
	case KindLabel:
		return n, nil

	case KindLevel:
		children, err := buildChildren(binding, d.Children)
		if err != nil {
			return nil, err
		}
		n.Children = children
		return n, nil

	case KindAction:
		if d.Action == nil {
			return nil, NewSchemaError(d.Label, "action has no callback")
		}
		n.Action = d.Action
		return n, nil

	case KindInt:
		if err := checkBounds(d); err != nil {
			return nil, err
		}
		if !isIntegral(d.Min) || !isIntegral(d.Max) || !isIntegral(d.Step) {
			return nil, NewSchemaError(d.Path, fmt.Sprintf("int bounds must be integral (min %g, max %g, step %g)", d.Min, d.Max, d.Step))
		}
		if !fitsInt32(d.Min) || !fitsInt32(d.Max) || !fitsInt32(d.Step) {
			return nil, NewSchemaError(d.Path, fmt.Sprintf("int bounds must be within %d..%d (min %g, max %g, step %g)",
				math.MinInt32, math.MaxInt32, d.Min, d.Max, d.Step))
		}
		n.intVal = IntValue{Min: int(d.Min), Max: int(d.Max), Step: int(d.Step)}

	case KindFloat:
		if err := checkBounds(d); err != nil {
			return nil, err
		}
		n.floatVal = FloatValue{Min: d.Min, Max: d.Max, Step: d.Step}

	case KindList:
		n.staticOptions = append([]string(nil), d.Options...)
		n.optionsFrom = d.OptionsFrom
		n.optionsKey = d.OptionsKey

	case KindIP, KindBool:

	default:
		return nil, NewSchemaError(d.Label, fmt.Sprintf("unknown node kind %s", d.Kind))
	}

	if d.Path == "" {
		return nil, NewSchemaError(d.Label, fmt.Sprintf("%s field has no config path", d.Kind))
	}
	if err := n.load(binding); err != nil {
		return nil, asSchemaError(d.Path, err)
	}
	return n, nil
}

func checkBounds(d Descriptor) error {
	if d.Min > d.Max {
		return NewSchemaError(d.Path, fmt.Sprintf("min %g is greater than max %g", d.Min, d.Max))
	}
	if d.Step <= 0 {
		return NewSchemaError(d.Path, fmt.Sprintf("step must be positive, got %g", d.Step))
	}
	return nil
}

// Int bounds stay within int32 so stepping between them cannot overflow.
func fitsInt32(f float64) bool {
	return f >= math.MinInt32 && f <= math.MaxInt32
}

// asSchemaError turns a load failure during Build into a schema error.
func asSchemaError(path string, err error) error {
	if IsSchemaError(err) {
		return err
	}
	var menuErr *Error
	if errors.As(err, &menuErr) && menuErr.Type == ErrTypeUnavailable {
		return &Error{
			Type:    ErrTypeSchema,
			Path:    menuErr.Path,
			Message: "config path not found",
			Err:     menuErr.Err,
		}
	}
	return &Error{Type: ErrTypeSchema, Path: path, Message: "cannot load field", Err: err}
}
