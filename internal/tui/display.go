package tui

import (
	"fmt"
	"strings"

	"github.com/muurk/smartthermo/internal/menu"
)

// Geometry of the device's OLED text mode
const (
	DisplayColumns = 21
	DisplayRows    = 5
)

// Display reproduces the device's text display: a fixed window of rows over
// the current level, scrolled just enough to keep the cursor visible.
// It implements menu.Renderer.
type Display struct {
	Columns int
	Rows    int

	// scroll offset per level, keyed by the level's label path
	offsets map[string]int
	view    menu.View
	lines   []string
	renders int
}

// NewDisplay creates a display with the device geometry.
func NewDisplay() *Display {
	return &Display{
		Columns: DisplayColumns,
		Rows:    DisplayRows,
		offsets: make(map[string]int),
	}
}

// Render implements menu.Renderer.
func (d *Display) Render(v menu.View) {
	d.view = v
	d.renders++

	key := strings.Join(v.Path, "/")
	offset := scrollOffset(d.offsets[key], v.Cursor, d.Rows)
	d.offsets[key] = offset

	end := offset + d.Rows
	if end > len(v.Items) {
		end = len(v.Items)
	}

	d.lines = d.lines[:0]
	for i := offset; i < end; i++ {
		var editing *menu.EditView
		if i == v.Cursor {
			editing = v.Editing
		}
		d.lines = append(d.lines, clip(FormatItem(v.Items[i], i == v.Cursor, editing), d.Columns))
	}
}

// Lines returns the rows drawn by the last Render.
func (d *Display) Lines() []string {
	return append([]string(nil), d.lines...)
}

// View returns the last rendered view.
func (d *Display) View() menu.View {
	return d.view
}

// Renders returns how many times the display has been drawn.
func (d *Display) Renders() int {
	return d.renders
}

// String returns the rows joined by newlines, followed by the message line
// if there is one.
func (d *Display) String() string {
	out := strings.Join(d.lines, "\n")
	if d.view.Message != "" {
		out += "\n" + clip("!"+d.view.Message, d.Columns)
	}
	return out
}

// scrollOffset moves offset the minimum needed to show cursor.
func scrollOffset(offset, cursor, rows int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+rows {
		return cursor - rows + 1
	}
	return offset
}

// FormatItem renders one menu row the way the device does: ">" marks the
// cursor, "*" replaces it while the row is being edited, and the active
// octet of an IP edit is bracketed.
func FormatItem(item menu.Item, selected bool, editing *menu.EditView) string {
	prefix := " "
	if selected {
		prefix = ">"
	}
	text := prefix + item.Label

	value := item.Value
	if editing != nil {
		value = editing.Working
	}

	switch item.Kind {
	case menu.KindLevel:
		text += " >"
	case menu.KindInt, menu.KindFloat, menu.KindIP, menu.KindList, menu.KindBool:
		if item.Unavailable && editing == nil {
			text += ": --"
			break
		}
		if editing != nil && item.Kind == menu.KindIP {
			text += ": " + formatOctets(value, editing.Octet)
		} else {
			text += ": " + FormatValue(value)
		}
	case menu.KindLabel, menu.KindAction:
	}

	if editing != nil && item.Kind != menu.KindIP {
		text = "*" + text[1:]
	}
	return text
}

// FormatValue renders a field value for display.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "ON"
		}
		return "OFF"
	case float64:
		return fmt.Sprintf("%.2f", v)
	case int:
		return fmt.Sprintf("%d", v)
	case menu.IPv4:
		return v.String()
	case string:
		return v
	case nil:
		return "--"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatOctets(value interface{}, active int) string {
	ip, ok := value.(menu.IPv4)
	if !ok {
		return FormatValue(value)
	}
	parts := make([]string, len(ip))
	for i, o := range ip {
		if i == active {
			parts[i] = fmt.Sprintf("[%d]", o)
		} else {
			parts[i] = fmt.Sprintf("%d", o)
		}
	}
	return strings.Join(parts, ".")
}

func clip(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:width])
}
