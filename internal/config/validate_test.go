package config

import (
	"math"
	"testing"
)

func noLookup(string) (interface{}, bool) { return nil, false }

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator
		value     interface{}
		wantErr   bool
	}{
		{"one of ok", OneOf("AP", "STA"), "STA", false},
		{"one of rejects", OneOf("AP", "STA"), "sta", true},
		{"one of wrong type", OneOf("AP"), 1, true},
		{"bool ok", Bool, false, false},
		{"bool rejects int", Bool, 0, true},
		{"int range low edge", IntRange(50, 1000), 50, false},
		{"int range high edge", IntRange(50, 1000), 1000, false},
		{"int range above", IntRange(50, 1000), 1001, true},
		{"int range float", IntRange(50, 1000), 100.0, true},
		{"number range int", NumberRange(0, 10), 3, false},
		{"number range float", NumberRange(0, 10), 9.9, false},
		{"number range NaN", NumberRange(0, 10), math.NaN(), true},
		{"number range unbounded", NumberRange(0, math.MaxFloat64), 1e9, false},
		{"ipv4 ok", IPv4String, "10.0.0.1", false},
		{"ipv4 v6", IPv4String, "::1", true},
		{"ipv4 short", IPv4String, "10.0.1", true},
		{"ipv4 type", IPv4String, []interface{}{10, 0, 0, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator("test.path", tt.value, noLookup)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validator(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("validator(%v) error = %v, want validation error", tt.value, err)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if kindOf(1) != kindOf(2.5) {
		t.Error("ints and floats should share the number kind")
	}
	if kindOf("a") == kindOf(true) {
		t.Error("strings and booleans should differ")
	}
}
