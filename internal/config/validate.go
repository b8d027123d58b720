package config

import (
	"fmt"
	"math"
	"net"
	"strings"
)

// Lookup reads another value from the document being validated.
type Lookup func(path string) (interface{}, bool)

// Validator checks a value about to be stored at a path.
// It returns a *StoreError of type ErrTypeValidation on rejection.
type Validator func(path string, value interface{}, lookup Lookup) error

// WiFi modes understood by the connection manager
var WiFiModes = []string{"Off", "AP", "STA", "BOTH"}

// Reading modes of the main thermometer loop
var ReadingModes = []string{"OnShoot", "Continue"}

// DefaultValidators returns the constraints the firmware enforces on its own
// settings, independent of any menu bounds.
func DefaultValidators() map[string]Validator {
	return map[string]Validator{
		"wifi.mode":                OneOf(WiFiModes...),
		"wifi.selected":            validateSelectedNetwork,
		"wifi.ap_credentials.ip":   IPv4String,
		"wifi.ap_credentials.ssid": validateSSID,
		"preferences.laser":        Bool,
		"preferences.bignum":       Bool,
		"preferences.reading":      OneOf(ReadingModes...),
		"preferences.refresh":      IntRange(1, 10000),
		"thermostat.active":        Bool,
		"thermostat.target":        NumberRange(0, 150),
		"thermostat.p":             NumberRange(0, math.MaxFloat64),
		"thermostat.i":             NumberRange(0, math.MaxFloat64),
		"thermostat.d":             NumberRange(0, math.MaxFloat64),
		"tapo.enabled":             Bool,
		"tapo.ip":                  IPv4String,
		"calibration.enabled":      Bool,
	}
}

// OneOf accepts only one of the given strings
func OneOf(choices ...string) Validator {
	return func(path string, value interface{}, _ Lookup) error {
		s, ok := value.(string)
		if !ok {
			return NewValidationError(path, fmt.Sprintf("expected string, got %T", value))
		}
		for _, c := range choices {
			if s == c {
				return nil
			}
		}
		return NewValidationError(path, fmt.Sprintf("must be one of %s, got %q", strings.Join(choices, ", "), s))
	}
}

// Bool accepts only booleans
func Bool(path string, value interface{}, _ Lookup) error {
	if _, ok := value.(bool); !ok {
		return NewValidationError(path, fmt.Sprintf("expected boolean, got %T", value))
	}
	return nil
}

// IntRange accepts integers within [min, max]
func IntRange(min, max int) Validator {
	return func(path string, value interface{}, _ Lookup) error {
		n, ok := value.(int)
		if !ok {
			return NewValidationError(path, fmt.Sprintf("expected integer, got %T", value))
		}
		if n < min || n > max {
			return NewValidationError(path, fmt.Sprintf("must be %d-%d, got %d", min, max, n))
		}
		return nil
	}
}

// NumberRange accepts integers or floats within [min, max]
func NumberRange(min, max float64) Validator {
	return func(path string, value interface{}, _ Lookup) error {
		f, ok := AsFloat(value)
		if !ok {
			return NewValidationError(path, fmt.Sprintf("expected number, got %T", value))
		}
		if math.IsNaN(f) || f < min || f > max {
			if max == math.MaxFloat64 {
				return NewValidationError(path, fmt.Sprintf("must be >= %g, got %g", min, f))
			}
			return NewValidationError(path, fmt.Sprintf("must be %g-%g, got %g", min, max, f))
		}
		return nil
	}
}

// IPv4String accepts dotted-quad IPv4 addresses
func IPv4String(path string, value interface{}, _ Lookup) error {
	s, ok := value.(string)
	if !ok {
		return NewValidationError(path, fmt.Sprintf("expected IPv4 string, got %T", value))
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil || strings.Count(s, ".") != 3 {
		return NewValidationError(path, fmt.Sprintf("invalid IPv4 address %q", s))
	}
	return nil
}

func validateSSID(path string, value interface{}, _ Lookup) error {
	s, ok := value.(string)
	if !ok {
		return NewValidationError(path, fmt.Sprintf("expected string, got %T", value))
	}
	if s == "" {
		return NewValidationError(path, "SSID cannot be empty")
	}
	if len(s) > 32 {
		return NewValidationError(path, fmt.Sprintf("SSID too long (max 32 chars): %d chars", len(s)))
	}
	return nil
}

// wifi.selected indexes wifi.known; an empty list only allows 0.
func validateSelectedNetwork(path string, value interface{}, lookup Lookup) error {
	n, ok := value.(int)
	if !ok {
		return NewValidationError(path, fmt.Sprintf("expected integer, got %T", value))
	}
	known := 0
	if v, ok := lookup("wifi.known"); ok {
		if list, ok := v.([]interface{}); ok {
			known = len(list)
		}
	}
	if n < 0 || (known > 0 && n >= known) || (known == 0 && n != 0) {
		return NewValidationError(path, fmt.Sprintf("no known network at index %d", n))
	}
	return nil
}

// AsFloat converts any numeric document value to float64.
func AsFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

// kindOf groups document values so a write cannot change a setting's shape.
func kindOf(value interface{}) string {
	switch value.(type) {
	case int, int64, float64, float32:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "section"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", value)
	}
}
