package blocks

import (
	"math"
)

// Inputs holds a block's input values after resolution against its type's
// schema. Every declared input is present and already of the declared kind.
type Inputs struct {
	values map[string]Value
}

// Resolve coerces raw instance inputs according to the block type schema.
// Unset inputs take the default. Numeric inputs that do not parse also take
// the default; their names are returned in substituted so callers can log
// them. Resolution never fails.
func Resolve(bt BlockType, raw map[string]Value) (in Inputs, substituted []string) {
	in.values = make(map[string]Value, len(bt.Inputs))

	for _, spec := range bt.Inputs {
		v, ok := raw[spec.Name]
		if !ok {
			in.values[spec.Name] = spec.Default
			continue
		}

		switch spec.Kind {
		case KindNumber:
			f, valid := v.Float()
			if !valid {
				f, _ = spec.Default.Float()
				substituted = append(substituted, spec.Name)
			}
			in.values[spec.Name] = Number(spec.normalize(f))
		default:
			in.values[spec.Name] = Text(v.String())
		}
	}

	return in, substituted
}

// normalize applies integer truncation and bounds to a numeric input.
func (spec InputSpec) normalize(f float64) float64 {
	if spec.Integer {
		f = math.Trunc(f)
	}
	if spec.Min != nil && f < *spec.Min {
		f = *spec.Min
	}
	if spec.Max != nil && f > *spec.Max {
		f = *spec.Max
	}
	return f
}

// Number returns a numeric input. Unknown names read as 0.
func (in Inputs) Number(name string) float64 {
	f, _ := in.values[name].Float()
	return f
}

// Integer inputs saturate at these bounds when read with Int.
const (
	MaxInt = math.MaxInt32
	MinInt = math.MinInt32
)

// Int returns a numeric input truncated to an int, saturating at
// MinInt and MaxInt.
func (in Inputs) Int(name string) int {
	f := in.Number(name)
	switch {
	case f >= MaxInt:
		return MaxInt
	case f <= MinInt:
		return MinInt
	}
	return int(f)
}

// Text returns a text input. Unknown names read as "".
func (in Inputs) Text(name string) string {
	v, ok := in.values[name]
	if !ok {
		return ""
	}
	return v.String()
}

// Values returns a copy of all resolved values.
func (in Inputs) Values() map[string]Value {
	out := make(map[string]Value, len(in.values))
	for k, v := range in.values {
		out[k] = v
	}
	return out
}
