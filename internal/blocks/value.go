package blocks

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the value type of a block input.
type Kind int

const (
	KindNumber Kind = iota
	KindText
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a block input value: either a number or a piece of text.
// Raw editor input is kept as text and only coerced when a handler reads it.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number creates a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text creates a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// Float returns the value as a number. Text is parsed; the second result
// is false when the text is not a finite number.
func (v Value) Float() (float64, bool) {
	if v.kind == KindNumber {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String returns the value as text. Numbers use the shortest representation.
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// Any returns the value as a plain Go value (float64 or string), suitable
// for YAML/JSON encoding.
func (v Value) Any() any {
	if v.kind == KindNumber {
		return v.num
	}
	return v.text
}

// FromAny converts a decoded YAML/JSON scalar into a Value.
// Anything that is not a number is kept as its text form.
func FromAny(x any) Value {
	switch t := x.(type) {
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case string:
		return Text(t)
	case nil:
		return Text("")
	case bool:
		return Text(strconv.FormatBool(t))
	default:
		return Text("")
	}
}
