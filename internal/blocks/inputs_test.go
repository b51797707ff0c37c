package blocks

import (
	"testing"
)

func TestResolveNumericCoercion(t *testing.T) {
	move, _ := NewBuiltinCatalog().Lookup(TypeMove)

	tests := []struct {
		name        string
		raw         map[string]Value
		expected    float64
		substituted bool
	}{
		{"unset uses default", nil, 10, false},
		{"number kept", map[string]Value{"steps": Number(25)}, 25, false},
		{"numeric text parsed", map[string]Value{"steps": Text(" 42 ")}, 42, false},
		{"integer input truncates", map[string]Value{"steps": Text("12.7")}, 12, false},
		{"negative kept", map[string]Value{"steps": Number(-5)}, -5, false},
		{"zero kept", map[string]Value{"steps": Number(0)}, 0, false},
		{"garbage falls back", map[string]Value{"steps": Text("abc")}, 10, true},
		{"empty falls back", map[string]Value{"steps": Text("")}, 10, true},
		{"NaN falls back", map[string]Value{"steps": Text("NaN")}, 10, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, subs := Resolve(move, tc.raw)
			if got := in.Number("steps"); got != tc.expected {
				t.Errorf("steps = %v, expected %v", got, tc.expected)
			}
			if (len(subs) > 0) != tc.substituted {
				t.Errorf("substituted = %v, expected substitution %v", subs, tc.substituted)
			}
		})
	}
}

func TestResolveAppliesBounds(t *testing.T) {
	wait, _ := NewBuiltinCatalog().Lookup(TypeWait)

	in, _ := Resolve(wait, map[string]Value{"seconds": Number(-3)})
	if got := in.Number("seconds"); got != 0 {
		t.Errorf("seconds = %v, expected clamp to 0", got)
	}

	// Fractional seconds survive since wait is not an integer input
	in, _ = Resolve(wait, map[string]Value{"seconds": Text("0.5")})
	if got := in.Number("seconds"); got != 0.5 {
		t.Errorf("seconds = %v, expected 0.5", got)
	}
}

func TestResolveText(t *testing.T) {
	say, _ := NewBuiltinCatalog().Lookup(TypeSay)

	in, subs := Resolve(say, map[string]Value{"message": Number(7)})
	if got := in.Text("message"); got != "7" {
		t.Errorf("message = %q, expected \"7\"", got)
	}
	if len(subs) != 0 {
		t.Errorf("text inputs are never substituted, got %v", subs)
	}

	in, _ = Resolve(say, nil)
	if in.Text("message") != "Hello!" || in.Number("duration") != 2 {
		t.Errorf("defaults not applied: %v", in.Values())
	}
}

func TestFromAny(t *testing.T) {
	if v := FromAny(3); v.Kind() != KindNumber || v.String() != "3" {
		t.Errorf("FromAny(3) = %v", v)
	}
	if v := FromAny("x"); v.Kind() != KindText || v.String() != "x" {
		t.Errorf("FromAny(x) = %v", v)
	}
	if v := FromAny(1.5); v.Any() != 1.5 {
		t.Errorf("FromAny(1.5).Any() = %v", v.Any())
	}
}

func TestIntSaturates(t *testing.T) {
	move, _ := NewBuiltinCatalog().Lookup(TypeMove)

	tests := []struct {
		raw      Value
		expected int
	}{
		{Number(12), 12},
		{Text("-7"), -7},
		{Text("1e300"), MaxInt},
		{Text("-1e300"), MinInt},
		{Number(1e19), MaxInt},
		{Number(MaxInt), MaxInt},
		{Number(MinInt), MinInt},
	}

	for _, tc := range tests {
		in, _ := Resolve(move, map[string]Value{"steps": tc.raw})
		if got := in.Int("steps"); got != tc.expected {
			t.Errorf("Int(%v) = %d, expected %d", tc.raw, got, tc.expected)
		}
	}
}
