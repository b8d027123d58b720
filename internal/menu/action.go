package menu

import (
	"fmt"
	"strings"
)

// Action is one button press delivered to the engine.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
	Fire
)

// String returns the button name.
func (a Action) String() string {
	switch a {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Fire:
		return "FIRE"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction parses a button name, case-insensitively. The single-letter
// forms u, d, l, r and f are accepted as well.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "fire", "f":
		return Fire, nil
	default:
		return 0, fmt.Errorf("unknown action %q (valid: up, down, left, right, fire)", s)
	}
}

// ParseActions parses a sequence of button names separated by commas or
// whitespace, e.g. "right,up,up,left".
func ParseActions(s string) ([]Action, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	actions := make([]Action, 0, len(fields))
	for _, f := range fields {
		a, err := ParseAction(f)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Outcome reports what a dispatched action did.
type Outcome int

const (
	// Unchanged means the action had no visible effect
	Unchanged Outcome = iota
	// Changed means the view changed and has been re-rendered
	Changed
	// Exit means the user asked to leave the menu
	Exit
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}
