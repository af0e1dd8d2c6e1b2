package lang

import (
	"cmp"
	"log/slog"
	"math"
	"reflect"
	"strings"
)

// strictEqual reports whether a and b have the same kind and value. Integers
// and floats are different kinds of number here, so 1 !== 1.0.
func strictEqual(a, b Value) bool {
	switch x := a.data.(type) {
	case nil:
		return b.data == nil
	case bool, int64, float64, string:
		return a.data == b.data
	case []Value:
		y, ok := b.data.([]Value)
		if !ok || len(x) != len(y) {
			return false
		}

		for i := range x {
			if !strictEqual(x[i], y[i]) {
				return false
			}
		}

		return true
	case *Mapping:
		y, ok := b.data.(*Mapping)
		if !ok || x.Len() != y.Len() {
			return false
		}

		for i := range x.keys {
			if x.keys[i] != y.keys[i] || !strictEqual(x.vals[i], y.vals[i]) {
				return false
			}
		}

		return true
	case handleBox:
		y, ok := b.data.(handleBox)

		return ok && sameHandle(x.Handle, y.Handle)
	default:
		return false
	}
}

// sameHandle compares handles by identity when their dynamic type permits.
func sameHandle(a, b Handle) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}

	return a == b
}

// looseEqual reports whether a and b are equal after conversion, so that
// 1 == 1.0, "1" == 1, and null == false.
func looseEqual(a, b Value) bool {
	if c, err := compare(a, b); err == nil {
		return c == 0
	}

	return strictEqual(a, b)
}

// compare orders a relative to b, converting between kinds the way the
// comparison operators do.
//
//   - A bool on either side compares both as bools.
//   - Null compares as "" against strings and as false against anything else.
//   - Numbers and numeric strings compare numerically.
//   - A number and a non-numeric string compare as strings.
//   - Sequences compare by length, then element by element.
//   - Mappings compare by length, then value by value for matching keys.
//
// Any other pairing is an [ErrOperand] error.
func compare(a, b Value) (int, error) {
	ka, kb := a.Kind(), b.Kind()

	switch {
	case ka == KindBool || kb == KindBool:
		return compareBool(a.Truthy(), b.Truthy()), nil

	case ka == KindNull && kb == KindNull:
		return 0, nil

	case ka == KindNull && kb == KindString:
		return strings.Compare("", b.String()), nil

	case ka == KindString && kb == KindNull:
		return strings.Compare(a.String(), ""), nil

	case ka == KindNull || kb == KindNull:
		return compareBool(a.Truthy(), b.Truthy()), nil

	case ka == KindNumber && kb == KindNumber:
		return compareNumber(a, b), nil

	case ka == KindNumber && kb == KindString,
		ka == KindString && kb == KindNumber,
		ka == KindString && kb == KindString:
		x, xok := parseNumber(a.String())
		y, yok := parseNumber(b.String())

		if xok && yok {
			return compareNumber(x, y), nil
		}

		return strings.Compare(a.String(), b.String()), nil

	case ka == KindSequence && kb == KindSequence:
		x, _ := a.AsSequence()
		y, _ := b.AsSequence()

		if c := cmp.Compare(len(x), len(y)); c != 0 {
			return c, nil
		}

		for i := range x {
			c, err := compare(x[i], y[i])
			if err != nil || c != 0 {
				return c, err
			}
		}

		return 0, nil

	case ka == KindMapping && kb == KindMapping:
		x, _ := a.AsMapping()
		y, _ := b.AsMapping()

		if c := cmp.Compare(x.Len(), y.Len()); c != 0 {
			return c, nil
		}

		for k, xv := range x.All() {
			yv, ok := y.Get(k)
			if !ok {
				return 0, ErrOperand.Detail("mappings with different keys are not ordered")
			}

			c, err := compare(xv, yv)
			if err != nil || c != 0 {
				return c, err
			}
		}

		return 0, nil
	}

	return 0, ErrOperand.Detail("cannot compare "+ka.String()+" with "+kb.String()).
		With(slog.String("left", ka.String()), slog.String("right", kb.String()))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func compareNumber(a, b Value) int {
	if x, ok := a.data.(int64); ok {
		if y, ok := b.data.(int64); ok {
			return cmp.Compare(x, y)
		}
	}

	x, _ := a.AsFloat()
	y, _ := b.AsFloat()

	return cmp.Compare(x, y)
}

// toNumber converts v for use as an arithmetic operand. Null is 0, booleans
// are 0 or 1, and strings must hold a number literal.
func toNumber(v Value, op string) (Value, error) {
	switch d := v.data.(type) {
	case nil:
		return Int(0), nil
	case bool:
		if d {
			return Int(1), nil
		}

		return Int(0), nil
	case int64, float64:
		return v, nil
	case string:
		if n, ok := parseNumber(d); ok {
			return n, nil
		}
	}

	return Null(), ErrOperand.
		Detail("`"+op+"` does not accept "+describe(v)).
		With(slog.String("operator", op), slog.String("kind", v.Kind().String()))
}

// describe names v for diagnostics.
func describe(v Value) string {
	if s, ok := v.AsString(); ok {
		return "string " + quoteShort(s)
	}

	return v.Kind().String()
}

func quoteShort(s string) string {
	const limit = 24

	if len(s) > limit {
		s = s[:limit-3] + "..."
	}

	return "\"" + s + "\""
}

type arith func(a, b Value) (Value, error)

// numeric applies fn to a and b after converting both to numbers.
func numeric(op string, fn arith) arith {
	return func(a, b Value) (Value, error) {
		x, err := toNumber(a, op)
		if err != nil {
			return Null(), err
		}

		y, err := toNumber(b, op)
		if err != nil {
			return Null(), err
		}

		return fn(x, y)
	}
}

var (
	add = numeric("+", func(a, b Value) (Value, error) {
		if x, y, ok := ints(a, b); ok {
			if s := x + y; (s > x) == (y > 0) {
				return Int(s), nil
			}
		}

		return Float(toFloat(a) + toFloat(b)), nil
	})

	subtract = numeric("-", func(a, b Value) (Value, error) {
		if x, y, ok := ints(a, b); ok {
			if d := x - y; (d < x) == (y > 0) {
				return Int(d), nil
			}
		}

		return Float(toFloat(a) - toFloat(b)), nil
	})

	multiply = numeric("*", func(a, b Value) (Value, error) {
		if x, y, ok := ints(a, b); ok {
			if x == 0 || y == 0 {
				return Int(0), nil
			}

			p := x * y
			if p/y == x && !(x == -1 && y == math.MinInt64) &&
				!(y == -1 && x == math.MinInt64) {
				return Int(p), nil
			}
		}

		return Float(toFloat(a) * toFloat(b)), nil
	})

	divide = numeric("/", func(a, b Value) (Value, error) {
		if toFloat(b) == 0 {
			return Null(), ErrDivisionByZero
		}

		if x, y, ok := ints(a, b); ok && x%y == 0 &&
			!(x == math.MinInt64 && y == -1) {
			return Int(x / y), nil
		}

		return Float(toFloat(a) / toFloat(b)), nil
	})

	modulo = numeric("%", func(a, b Value) (Value, error) {
		x, _ := a.AsInt()
		y, _ := b.AsInt()

		if y == 0 {
			return Null(), ErrDivisionByZero.Detail("modulo by zero")
		}

		if y == -1 {
			return Int(0), nil
		}

		return Int(x % y), nil
	})

	power = numeric("**", func(a, b Value) (Value, error) {
		if x, y, ok := ints(a, b); ok && y >= 0 {
			if p, ok := intPow(x, y); ok {
				return Int(p), nil
			}
		}

		return Float(math.Pow(toFloat(a), toFloat(b))), nil
	})
)

// negate returns the arithmetic negation of v.
func negate(v Value) (Value, error) {
	return subtract(Int(0), v)
}

func ints(a, b Value) (int64, int64, bool) {
	x, xok := a.data.(int64)
	y, yok := b.data.(int64)

	return x, y, xok && yok
}

func toFloat(v Value) float64 {
	f, _ := v.AsFloat()

	return f
}

// intPow computes base**exp by squaring and reports false on overflow.
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)

	for exp > 0 {
		if exp&1 == 1 {
			r, ok := mulOK(result, base)
			if !ok {
				return 0, false
			}

			result = r
		}

		exp >>= 1
		if exp > 0 {
			b, ok := mulOK(base, base)
			if !ok {
				return 0, false
			}

			base = b
		}
	}

	return result, true
}

func mulOK(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}

	p := x * y
	if p/y != x || (x == -1 && y == math.MinInt64) ||
		(y == -1 && x == math.MinInt64) {
		return 0, false
	}

	return p, true
}

// Equal reports whether a and b are equal the way the == operator compares
// them.
func Equal(a, b Value) bool { return looseEqual(a, b) }

// Identical reports whether a and b are equal the way the === operator
// compares them.
func Identical(a, b Value) bool { return strictEqual(a, b) }

// Compare orders a relative to b the way the comparison operators do.
func Compare(a, b Value) (int, error) { return compare(a, b) }

// Add returns a + b with the conversions of the + operator.
func Add(a, b Value) (Value, error) { return add(a, b) }
