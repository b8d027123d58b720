package menu

import (
	"math/rand"
	"testing"
)

func TestIntValueStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v := IntValue{Value: 500, Min: 50, Max: 1000, Step: 50}

	for i := 0; i < 1000; i++ {
		if rng.Intn(2) == 0 {
			v = v.Up()
		} else {
			v = v.Down()
		}
		if v.Value < v.Min || v.Value > v.Max {
			t.Fatalf("step %d: value %d escaped [%d, %d]", i, v.Value, v.Min, v.Max)
		}
		if (v.Value-v.Min)%v.Step != 0 {
			t.Fatalf("step %d: value %d is not reachable from %d by steps of %d", i, v.Value, v.Min, v.Step)
		}
	}
}

func TestIntValueClampsAtEdges(t *testing.T) {
	tests := []struct {
		name string
		in   IntValue
		up   bool
		want int
	}{
		{"up at max", IntValue{Value: 150, Min: 0, Max: 150, Step: 1}, true, 150},
		{"down at min", IntValue{Value: 0, Min: 0, Max: 150, Step: 1}, false, 0},
		{"up past max", IntValue{Value: 990, Min: 50, Max: 1000, Step: 50}, true, 1000},
		{"down past min", IntValue{Value: 60, Min: 50, Max: 1000, Step: 50}, false, 50},
		{"negative range", IntValue{Value: -5, Min: -10, Max: 10, Step: 3}, false, -8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got IntValue
			if tt.up {
				got = tt.in.Up()
			} else {
				got = tt.in.Down()
			}
			if got.Value != tt.want {
				t.Errorf("Value = %d, want %d", got.Value, tt.want)
			}
		})
	}
}

func TestIntValueClamp(t *testing.T) {
	if got := (IntValue{Value: 2000, Min: 50, Max: 1000, Step: 50}).Clamp().Value; got != 1000 {
		t.Errorf("Clamp() = %d, want 1000", got)
	}
	if got := (IntValue{Value: -1, Min: 0, Max: 10, Step: 1}).Clamp().Value; got != 0 {
		t.Errorf("Clamp() = %d, want 0", got)
	}
}

func TestFloatValueStepsStayExact(t *testing.T) {
	v := FloatValue{Value: 0, Min: 0, Max: 10, Step: 0.1}
	for i := 0; i < 3; i++ {
		v = v.Up()
	}
	if v.Value != 0.3 {
		t.Errorf("0 + 3*0.1 = %v, want 0.3", v.Value)
	}

	for i := 0; i < 200; i++ {
		v = v.Up()
	}
	if v.Value != 10 {
		t.Errorf("Value = %v, want clamped to 10", v.Value)
	}

	for i := 0; i < 5; i++ {
		v = v.Down()
	}
	if v.Value != 9.5 {
		t.Errorf("Value = %v, want 9.5", v.Value)
	}
}

func TestFloatValueDownStopsAtMin(t *testing.T) {
	v := FloatValue{Value: 0.05, Min: 0, Max: 10, Step: 0.1}.Down()
	if v.Value != 0 {
		t.Errorf("Value = %v, want 0", v.Value)
	}
}

func TestParseIPv4(t *testing.T) {
	tests := []struct {
		in      string
		want    IPv4
		wantErr bool
	}{
		{"192.168.4.1", IPv4{192, 168, 4, 1}, false},
		{"0.0.0.0", IPv4{0, 0, 0, 0}, false},
		{"255.255.255.255", IPv4{255, 255, 255, 255}, false},
		{"256.1.1.1", IPv4{}, true},
		{"1.2.3", IPv4{}, true},
		{"1.2.3.4.5", IPv4{}, true},
		{"1..3.4", IPv4{}, true},
		{"a.b.c.d", IPv4{}, true},
		{"-1.2.3.4", IPv4{}, true},
		{"+1.2.3.4", IPv4{}, true},
		{"", IPv4{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIPv4(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIPv4(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseIPv4(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if !tt.wantErr && got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestIPv4OctetsClamp(t *testing.T) {
	ip := IPv4{255, 0, 10, 10}
	if got := ip.Up(0); got[0] != 255 {
		t.Errorf("Up(0) at 255 = %d, want 255", got[0])
	}
	if got := ip.Down(1); got[1] != 0 {
		t.Errorf("Down(1) at 0 = %d, want 0", got[1])
	}
	if got := ip.Up(2); got != (IPv4{255, 0, 11, 10}) {
		t.Errorf("Up(2) = %v, want 255.0.11.10", got)
	}
	if got := ip.Up(9); got != (IPv4{255, 0, 10, 11}) {
		t.Errorf("Up(9) should clamp to the last octet, got %v", got)
	}
}

func TestListValueWraps(t *testing.T) {
	v := ListValue{Options: []string{"Off", "AP", "STA", "BOTH"}, Index: 0}

	if got := v.Prev(); got.Selected() != "BOTH" {
		t.Errorf("Prev() from first = %q, want BOTH", got.Selected())
	}
	v.Index = 3
	if got := v.Next(); got.Selected() != "Off" {
		t.Errorf("Next() from last = %q, want Off", got.Selected())
	}

	full := v
	for i := 0; i < len(v.Options); i++ {
		full = full.Next()
	}
	if full.Index != v.Index {
		t.Errorf("n Next() calls should return to the start, got index %d", full.Index)
	}

	var empty ListValue
	if empty.Next().Selected() != "" || empty.Prev().Index != 0 {
		t.Error("empty lists should not move")
	}
}

func TestBoolValueToggle(t *testing.T) {
	if BoolValue(false).Toggle() != true {
		t.Error("Toggle(false) should be true")
	}
	if BoolValue(true).Toggle().Toggle() != true {
		t.Error("double Toggle should restore the value")
	}
}
