package menu

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	// KindLabel is static text that cannot be entered
	KindLabel Kind = iota + 1
	// KindLevel holds an ordered list of child nodes
	KindLevel
	// KindAction runs a callback when entered
	KindAction
	// KindInt edits a bounded integer
	KindInt
	// KindFloat edits a bounded float
	KindFloat
	// KindIP edits a dotted-quad IPv4 address octet by octet
	KindIP
	// KindList selects one of a list of options
	KindList
	// KindBool toggles an on/off setting
	KindBool
)

var kindNames = map[Kind]string{
	KindLabel:  "label",
	KindLevel:  "level",
	KindAction: "action",
	KindInt:    "int",
	KindFloat:  "float",
	KindIP:     "ip",
	KindList:   "list",
	KindBool:   "bool",
}

// String returns the schema name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a schema kind name such as "int" or "level".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// IsField reports whether nodes of this kind are bound to a config path.
func (k Kind) IsField() bool {
	switch k {
	case KindInt, KindFloat, KindIP, KindList, KindBool:
		return true
	default:
		return false
	}
}

// ActionFunc is the callback of an Action node. It runs synchronously on the
// engine's goroutine. Returning ErrExit asks the engine to leave the menu.
type ActionFunc func() error

// ErrExit is returned by an ActionFunc to end the menu session.
var ErrExit = errors.New("menu exit requested")

// Node is one entry of the menu tree. Only the fields of its Kind are used.
// The tree's shape is fixed once built; only cached field values change.
type Node struct {
	Kind     Kind
	Label    string
	Path     string
	Children []*Node
	Action   ActionFunc

	intVal   IntValue
	floatVal FloatValue
	ip       IPv4
	list     ListValue
	boolVal  BoolValue

	// List option source
	staticOptions []string
	optionsFrom   string
	optionsKey    string
	// listAsIndex is set when the stored value is the option index rather
	// than the option text.
	listAsIndex bool

	unavailable error
}

// Child returns the direct child with the given label, or nil.
func (n *Node) Child(label string) *Node {
	for _, c := range n.Children {
		if c.Label == label {
			return c
		}
	}
	return nil
}

// Find walks a label path from n, e.g. Find("Wifi", "Mode").
func (n *Node) Find(labels ...string) *Node {
	cur := n
	for _, l := range labels {
		if cur = cur.Child(l); cur == nil {
			return nil
		}
	}
	return cur
}

// Value returns the cached value of a field node: int, float64, IPv4,
// string (the selected option) or bool. It returns nil for other kinds and
// for unavailable fields.
func (n *Node) Value() interface{} {
	if n.unavailable != nil {
		return nil
	}
	switch n.Kind {
	case KindInt:
		return n.intVal.Value
	case KindFloat:
		return n.floatVal.Value
	case KindIP:
		return n.ip
	case KindList:
		return n.list.Selected()
	case KindBool:
		return bool(n.boolVal)
	default:
		return nil
	}
}

// Unavailable reports whether the field's path could not be read the last
// time it was loaded.
func (n *Node) Unavailable() bool {
	return n.unavailable != nil
}

// Err returns the error that made the field unavailable.
func (n *Node) Err() error {
	return n.unavailable
}

// Options returns the current options of a List node.
func (n *Node) Options() []string {
	return append([]string(nil), n.list.Options...)
}

// Int returns the bounded value of an Int node.
func (n *Node) Int() IntValue { return n.intVal }

// Float returns the bounded value of a Float node.
func (n *Node) Float() FloatValue { return n.floatVal }

// walk visits n and all of its descendants depth first.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// load reads the field's value from the binding into the cache.
// A failed Get yields an Unavailable error; a value of the wrong shape
// yields a Schema error. The cache is untouched on failure.
func (n *Node) load(b Binding) error {
	raw, err := b.Get(n.Path)
	if err != nil {
		return NewUnavailableError(n.Path, err)
	}

	switch n.Kind {
	case KindInt:
		i, ok := asInt(raw)
		if !ok {
			return NewSchemaError(n.Path, fmt.Sprintf("stored value %v (%T) is not an integer", raw, raw))
		}
		v := n.intVal
		v.Value = i
		n.intVal = v.Clamp()

	case KindFloat:
		f, ok := asFloat(raw)
		if !ok {
			return NewSchemaError(n.Path, fmt.Sprintf("stored value %v (%T) is not a number", raw, raw))
		}
		v := n.floatVal
		v.Value = f
		n.floatVal = v.Clamp()

	case KindIP:
		s, ok := raw.(string)
		if !ok {
			return NewSchemaError(n.Path, fmt.Sprintf("stored value %v (%T) is not an address string", raw, raw))
		}
		ip, err := ParseIPv4(s)
		if err != nil {
			return NewSchemaError(n.Path, err.Error())
		}
		n.ip = ip

	case KindList:
		options, err := n.resolveOptions(b)
		if err != nil {
			return err
		}
		index, asIndex, err := listIndex(raw, options)
		if err != nil {
			return NewSchemaError(n.Path, err.Error())
		}
		n.list = ListValue{Options: options, Index: index}
		n.listAsIndex = asIndex

	case KindBool:
		v, ok := raw.(bool)
		if !ok {
			return NewSchemaError(n.Path, fmt.Sprintf("stored value %v (%T) is not a boolean", raw, raw))
		}
		n.boolVal = BoolValue(v)

	default:
		return NewSchemaError(n.Path, fmt.Sprintf("%s nodes are not bound to config", n.Kind))
	}

	n.unavailable = nil
	return nil
}

// resolveOptions returns the static options, or the options read from
// optionsFrom when that list is non-empty.
func (n *Node) resolveOptions(b Binding) ([]string, error) {
	if n.optionsFrom != "" {
		raw, err := b.Get(n.optionsFrom)
		if err != nil {
			return nil, NewUnavailableError(n.optionsFrom, err)
		}
		items, ok := raw.([]interface{})
		if !ok {
			return nil, NewSchemaError(n.optionsFrom, fmt.Sprintf("options source is %T, not a list", raw))
		}

		options := make([]string, 0, len(items))
		for i, item := range items {
			opt, err := optionText(item, n.optionsKey)
			if err != nil {
				return nil, NewSchemaError(fmt.Sprintf("%s[%d]", n.optionsFrom, i), err.Error())
			}
			options = append(options, opt)
		}
		if len(options) > 0 {
			return options, nil
		}
	}

	if len(n.staticOptions) == 0 {
		return nil, NewSchemaError(n.Path, "list has no options")
	}
	return append([]string(nil), n.staticOptions...), nil
}

func optionText(item interface{}, key string) (string, error) {
	if key == "" {
		s, ok := item.(string)
		if !ok {
			return "", fmt.Errorf("option is %T, not a string", item)
		}
		return s, nil
	}

	m, ok := item.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("option is %T, not a section with %q", item, key)
	}
	s, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("option has no string %q", key)
	}
	return s, nil
}

// listIndex finds the selected option for a stored value. Strings select by
// text; integers select by position and are clamped into range.
func listIndex(raw interface{}, options []string) (index int, asIndex bool, err error) {
	if s, ok := raw.(string); ok {
		for i, opt := range options {
			if opt == s {
				return i, false, nil
			}
		}
		return 0, false, fmt.Errorf("stored value %q is not one of %s", s, strings.Join(options, ", "))
	}

	i, ok := asInt(raw)
	if !ok {
		return 0, false, fmt.Errorf("stored value %v (%T) is neither an option nor an index", raw, raw)
	}
	if i < 0 {
		i = 0
	}
	if i >= len(options) {
		i = len(options) - 1
	}
	return i, true, nil
}
