package lang

import (
	"log/slog"
	"strconv"
)

// resolve returns the member of receiver named by key.
//
// Containers are searched by key: a sequence by integer index and a mapping
// by the string form of key. A handle is asked, in order, for a property, a
// method, and its dynamic fallback; methods are returned as an uninvoked
// [BoundMethod]. The source text of the receiver is used for diagnostics.
func resolve(receiver, key Value, source string) (Value, error) {
	name := key.String()

	switch d := receiver.data.(type) {
	case []Value:
		if i, ok := index(key); ok && i >= 0 && i < int64(len(d)) {
			return d[i], nil
		}

	case *Mapping:
		if v, ok := d.Get(name); ok {
			return v, nil
		}

	case handleBox:
		if pr, ok := d.Handle.(PropertyReader); ok {
			if v, ok := pr.Property(name); ok {
				return v, nil
			}
		}

		if mc, ok := d.Handle.(MethodCaller); ok && mc.HasMethod(name) {
			return CallableValue(BoundMethod{Receiver: d.Handle, Name: name}), nil
		}

		if _, ok := d.Handle.(DynamicCaller); ok {
			return CallableValue(
				BoundMethod{Receiver: d.Handle, Name: name, Dynamic: true},
			), nil
		}
	}

	return Null(), ErrMemberNotFound.
		Detail("element `"+name+"` not found in `"+source+"`").
		With(
			slog.String("member", name),
			slog.String("receiver", source),
			slog.String("kind", receiver.Kind().String()),
		)
}

// index converts key to a sequence index. Integral numbers and strings
// holding a decimal integer are accepted.
func index(key Value) (int64, bool) {
	switch d := key.data.(type) {
	case int64:
		return d, true
	case float64:
		if d == float64(int64(d)) {
			return int64(d), true
		}
	case string:
		if i, err := strconv.ParseInt(d, 10, 64); err == nil {
			return i, true
		}
	}

	return 0, false
}
