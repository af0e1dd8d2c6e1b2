package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindNull     Kind = iota // null
	KindBool                 // bool
	KindNumber               // number
	KindString               // string
	KindSequence             // sequence
	KindMapping              // mapping
	KindCallable             // callable
	KindHandle               // handle
)

// Value is a runtime value produced by evaluation or supplied by the host.
//
// The zero Value is null. Values are immutable once constructed: a Sequence
// or Mapping received from a Value must not be modified in place.
type Value struct {
	data any
}

type (
	callableBox struct{ Callable }
	handleBox   struct{ Handle }
)

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{data: b} }

// Int returns an integer number.
func Int(i int64) Value { return Value{data: i} }

// Float returns a floating-point number.
func Float(f float64) Value { return Value{data: f} }

// String returns a string value.
func String(s string) Value { return Value{data: s} }

// Sequence returns an ordered list of values.
func Sequence(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}

	return Value{data: vs}
}

// MappingValue returns m as a value. A nil m is an empty mapping.
func MappingValue(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}

	return Value{data: m}
}

// CallableValue returns c as a value. A nil c is null.
func CallableValue(c Callable) Value {
	if c == nil {
		return Null()
	}

	return Value{data: callableBox{c}}
}

// HandleValue returns h as a value. A nil h is null.
func HandleValue(h Handle) Value {
	if h == nil {
		return Null()
	}

	return Value{data: handleBox{h}}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	switch v.data.(type) {
	case bool:
		return KindBool
	case int64, float64:
		return KindNumber
	case string:
		return KindString
	case []Value:
		return KindSequence
	case *Mapping:
		return KindMapping
	case callableBox:
		return KindCallable
	case handleBox:
		return KindHandle
	default:
		return KindNull
	}
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.data == nil }

// IsInt reports whether v is an integer number.
func (v Value) IsInt() bool {
	_, ok := v.data.(int64)

	return ok
}

// IsFloat reports whether v is a floating-point number.
func (v Value) IsFloat() bool {
	_, ok := v.data.(float64)

	return ok
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	b, ok := v.data.(bool)

	return b, ok
}

// AsInt returns the number held by v as an integer, truncating floats.
func (v Value) AsInt() (int64, bool) {
	switch n := v.data.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}

	return 0, false
}

// AsFloat returns the number held by v as a float.
func (v Value) AsFloat() (float64, bool) {
	switch n := v.data.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}

// AsString returns the string held by v. Unlike [Value.String], no other
// kind is converted.
func (v Value) AsString() (string, bool) {
	s, ok := v.data.(string)

	return s, ok
}

// AsSequence returns the elements held by v.
func (v Value) AsSequence() ([]Value, bool) {
	s, ok := v.data.([]Value)

	return s, ok
}

// AsMapping returns the mapping held by v.
func (v Value) AsMapping() (*Mapping, bool) {
	m, ok := v.data.(*Mapping)

	return m, ok
}

// AsCallable returns the callable held by v.
func (v Value) AsCallable() (Callable, bool) {
	c, ok := v.data.(callableBox)

	return c.Callable, ok
}

// AsHandle returns the host object held by v.
func (v Value) AsHandle() (Handle, bool) {
	h, ok := v.data.(handleBox)

	return h.Handle, ok
}

// Truthy reports whether v is considered true in a boolean context.
//
// Null, false, zero, the empty string, the string "0", and empty containers
// are false. Everything else is true.
func (v Value) Truthy() bool {
	switch d := v.data.(type) {
	case nil:
		return false
	case bool:
		return d
	case int64:
		return d != 0
	case float64:
		return d != 0
	case string:
		return d != "" && d != "0"
	case []Value:
		return len(d) > 0
	case *Mapping:
		return d.Len() > 0
	default:
		return true
	}
}

// String returns the text that v contributes to a concatenation.
func (v Value) String() string {
	switch d := v.data.(type) {
	case nil:
		return ""
	case bool:
		if d {
			return "1"
		}

		return ""
	case int64:
		return strconv.FormatInt(d, 10)
	case float64:
		return formatFloat(d)
	case string:
		return d
	case []Value, *Mapping:
		return FormatResult(v)
	case callableBox:
		return "<callable>"
	case handleBox:
		return "<" + d.TypeName() + ">"
	default:
		return ""
	}
}

// Native returns v as plain Go data suitable for encoders: nil, bool, int64,
// float64, string, []any, or an order-preserving [NativeMap]. Callables and
// handles are rendered as their string form.
func (v Value) Native() any {
	switch d := v.data.(type) {
	case nil, bool, int64, float64, string:
		return d
	case []Value:
		out := make([]any, len(d))
		for i, e := range d {
			out[i] = e.Native()
		}

		return out
	case *Mapping:
		return d.native()
	default:
		return v.String()
	}
}

// formatFloat renders f in its shortest form without a trailing ".0" for
// integral values.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}

	if a := math.Abs(f); a == 0 || (a >= 1e-4 && a < 1e15) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return strconv.FormatFloat(f, 'G', -1, 64)
}

// numberLiteral matches the decimal number literals accepted by [parseNumber].
var numberLiteral = regexp.MustCompile(`^[+-]?(?:\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// parseNumber converts s into a number, keeping the integer form when s has
// neither a fraction nor an exponent and fits in 64 bits.
func parseNumber(s string) (Value, bool) {
	s = strings.TrimSpace(s)

	m := numberLiteral.FindStringSubmatch(s)
	if m == nil {
		return Null(), false
	}

	if m[1] == "" && m[2] == "" && !strings.HasPrefix(strings.TrimLeft(s, "+-"), ".") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), true
		}
	}

	// Only range errors are possible here; the rounded value is kept.
	f, _ := strconv.ParseFloat(s, 64)

	return Float(f), true
}
