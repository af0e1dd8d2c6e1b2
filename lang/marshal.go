package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// FromNative converts plain Go data into a [Value].
//
// Accepted are nil, bool, every integer and float type, string, []byte,
// [json.Number], [time.Time] (as RFC 3339 text), slices and arrays, maps with
// string keys (in sorted key order), ordered [yaml.MapSlice] and [NativeMap]
// data, [*Mapping], [Value], [Callable], [Handle], and functions with the
// signature of [Func]. Anything else is an [ErrInvalidValueType] error.
func FromNative(x any) (Value, error) {
	switch d := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return d, nil
	case bool:
		return Bool(d), nil
	case int:
		return Int(int64(d)), nil
	case int8:
		return Int(int64(d)), nil
	case int16:
		return Int(int64(d)), nil
	case int32:
		return Int(int64(d)), nil
	case int64:
		return Int(d), nil
	case uint:
		return fromUint(uint64(d)), nil
	case uint8:
		return Int(int64(d)), nil
	case uint16:
		return Int(int64(d)), nil
	case uint32:
		return Int(int64(d)), nil
	case uint64:
		return fromUint(d), nil
	case float32:
		return Float(float64(d)), nil
	case float64:
		return Float(d), nil
	case string:
		return String(d), nil
	case []byte:
		return String(string(d)), nil
	case json.Number:
		if v, ok := parseNumber(d.String()); ok {
			return v, nil
		}

		return String(d.String()), nil
	case time.Time:
		return String(d.Format(time.RFC3339Nano)), nil
	case *Mapping:
		return MappingValue(d.Clone()), nil
	case NativeMap:
		return fromMapSlice(yaml.MapSlice(d))
	case yaml.MapSlice:
		return fromMapSlice(d)
	case []any:
		return fromSlice(len(d), func(i int) any { return d[i] })
	case map[string]any:
		return fromMap(d)
	case Callable:
		return CallableValue(d), nil
	case func(context.Context, Args) (Value, error):
		return CallableValue(Func(d)), nil
	case Handle:
		return HandleValue(d), nil
	}

	return fromReflect(x)
}

// MustFromNative is like [FromNative] but panics on error. It is intended for
// bindings built from literals in host code.
func MustFromNative(x any) Value {
	v, err := FromNative(x)
	if err != nil {
		panic(err)
	}

	return v
}

// fromUint keeps values above the int64 range as floats.
func fromUint(u uint64) Value {
	if u > 1<<63-1 {
		return Float(float64(u))
	}

	return Int(int64(u))
}

func fromSlice(n int, at func(i int) any) (Value, error) {
	vals := make([]Value, n)

	for i := range n {
		v, err := FromNative(at(i))
		if err != nil {
			return Null(), err
		}

		vals[i] = v
	}

	return Sequence(vals...), nil
}

func fromMap[T any](m map[string]T) (Value, error) {
	out := newMapping(len(m))

	for _, k := range sortedKeys(m) {
		v, err := FromNative(m[k])
		if err != nil {
			return Null(), err
		}

		out.Set(k, v)
	}

	return MappingValue(out), nil
}

func fromMapSlice(ms yaml.MapSlice) (Value, error) {
	out := newMapping(len(ms))

	for _, item := range ms {
		v, err := FromNative(item.Value)
		if err != nil {
			return Null(), err
		}

		out.Set(mapKey(item.Key), v)
	}

	return MappingValue(out), nil
}

// mapKey converts a decoded map key to its string form.
func mapKey(k any) string {
	switch d := k.(type) {
	case string:
		return d
	case bool:
		return strconv.FormatBool(d)
	case nil:
		return ""
	}

	if v, err := FromNative(k); err == nil && v.Kind() == KindNumber {
		return v.String()
	}

	return fmt.Sprint(k)
}

// fromReflect converts the remaining container kinds: typed slices, arrays,
// and maps keyed by strings.
func fromReflect(x any) (Value, error) {
	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return fromSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		m := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}

		return fromMap(m)

	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
	}

	return Null(), ErrInvalidValueType.Detail(goTypeName(x)).
		With(slog.String("type", goTypeName(x)))
}
