package menu

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// floatScale rounds float steps to 9 decimal places so that repeated 0.1
// steps land on exact display values and bound checks.
const floatScale = 1e9

func roundFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > floatScale {
		return f
	}
	return math.Round(f*floatScale) / floatScale
}

// IntValue is an integer bounded to [Min, Max] that moves by Step.
type IntValue struct {
	Value int
	Min   int
	Max   int
	Step  int
}

// Clamp returns v with Value forced into [Min, Max].
func (v IntValue) Clamp() IntValue {
	if v.Value < v.Min {
		v.Value = v.Min
	}
	if v.Value > v.Max {
		v.Value = v.Max
	}
	return v
}

// Up adds one step, stopping at Max.
func (v IntValue) Up() IntValue {
	if v.Max-v.Value < v.Step {
		v.Value = v.Max
		return v
	}
	v.Value += v.Step
	return v
}

// Down subtracts one step, stopping at Min.
func (v IntValue) Down() IntValue {
	if v.Value-v.Min < v.Step {
		v.Value = v.Min
		return v
	}
	v.Value -= v.Step
	return v
}

// FloatValue is a float bounded to [Min, Max] that moves by Step.
type FloatValue struct {
	Value float64
	Min   float64
	Max   float64
	Step  float64
}

// Clamp returns v with Value forced into [Min, Max] and rounded.
func (v FloatValue) Clamp() FloatValue {
	v.Value = roundFloat(v.Value)
	if v.Value < v.Min {
		v.Value = v.Min
	}
	if v.Value > v.Max {
		v.Value = v.Max
	}
	return v
}

// Up adds one step, stopping at Max.
func (v FloatValue) Up() FloatValue {
	v.Value += v.Step
	return v.Clamp()
}

// Down subtracts one step, stopping at Min.
func (v FloatValue) Down() FloatValue {
	v.Value -= v.Step
	return v.Clamp()
}

// IPv4 is a dotted-quad address edited one octet at a time.
type IPv4 [4]uint8

// LastOctet is the index of the final octet of an IPv4 address.
const LastOctet = 3

// ParseIPv4 parses a strict dotted quad such as "192.168.4.1".
func ParseIPv4(s string) (IPv4, error) {
	var ip IPv4

	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return ip, fmt.Errorf("invalid IPv4 address %q: expected 4 octets", s)
	}
	for i, part := range parts {
		if part == "" || len(part) > 3 || strings.TrimLeft(part, "0123456789") != "" {
			return ip, fmt.Errorf("invalid IPv4 address %q: bad octet %q", s, part)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return ip, fmt.Errorf("invalid IPv4 address %q: octet %q out of range", s, part)
		}
		ip[i] = uint8(n)
	}
	return ip, nil
}

// String returns the dotted-quad form.
func (ip IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
}

// Up increments one octet, stopping at 255.
func (ip IPv4) Up(octet int) IPv4 {
	octet = clampOctet(octet)
	if ip[octet] < 255 {
		ip[octet]++
	}
	return ip
}

// Down decrements one octet, stopping at 0.
func (ip IPv4) Down(octet int) IPv4 {
	octet = clampOctet(octet)
	if ip[octet] > 0 {
		ip[octet]--
	}
	return ip
}

func clampOctet(octet int) int {
	if octet < 0 {
		return 0
	}
	if octet > LastOctet {
		return LastOctet
	}
	return octet
}

// ListValue selects one of a fixed list of options. Moving past either end
// wraps around.
type ListValue struct {
	Options []string
	Index   int
}

// Next selects the following option, wrapping to the first.
func (v ListValue) Next() ListValue {
	if n := len(v.Options); n > 0 {
		v.Index = (v.Index + 1) % n
	}
	return v
}

// Prev selects the preceding option, wrapping to the last.
func (v ListValue) Prev() ListValue {
	if n := len(v.Options); n > 0 {
		v.Index = (v.Index - 1 + n) % n
	}
	return v
}

// Selected returns the selected option, or "" for an empty list.
func (v ListValue) Selected() string {
	if v.Index < 0 || v.Index >= len(v.Options) {
		return ""
	}
	return v.Options[v.Index]
}

// BoolValue is an on/off setting.
type BoolValue bool

// Toggle returns the opposite value.
func (v BoolValue) Toggle() BoolValue {
	return !v
}

// asInt accepts the integer forms a binding may return, including floats
// with no fractional part.
func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), true
		}
	}
	return 0, false
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}
