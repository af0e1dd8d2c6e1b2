package ext

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/smpl/lang"
)

// Store is the binding set that [Variables] and [Expr] operate on.
// [*lang.Evaluator] implements Store over its base bindings.
type Store interface {
	Lookup(name string) (lang.Value, bool)
	Set(name string, v lang.Value)
	Unset(name string) bool
	Bindings() *lang.Mapping
}

// All returns the bindings of every extension library.
func All(store Store) *lang.Mapping {
	return lang.NewMapping().Merge(
		Arrays(),
		Files(),
		System(),
		Variables(store),
		Expr(store),
	)
}

// Bind binds the result of [All] into store, replacing bindings of the same
// name.
func Bind(store Store) {
	for name, v := range All(store).All() {
		store.Set(name, v)
	}
}

// library collects the functions of one extension.
type library struct {
	m *lang.Mapping
}

func newLibrary() library { return library{m: lang.NewMapping()} }

func (l library) def(name string, fn lang.Func) library {
	l.m.Set(name, lang.CallableValue(fn))

	return l
}

func (l library) val(name string, v lang.Value) library {
	l.m.Set(name, v)

	return l
}

// argError reports an argument of the wrong kind.
func argError(fn, param, want string, got lang.Value) *lang.Error {
	return lang.ErrArgument.
		Detail(fn+": `"+param+"` must be "+want+", not "+got.Kind().String()).
		With(
			slog.String("function", fn),
			slog.String("param", param),
			slog.String("kind", got.Kind().String()),
		)
}

func argString(fn string, args lang.Args, i int, param string) (string, error) {
	v, _ := args.Lookup(i, param)

	s, ok := v.AsString()
	if !ok {
		return "", argError(fn, param, "string", v)
	}

	return s, nil
}

func argCallable(fn string, args lang.Args, i int, param string) (lang.Callable, error) {
	v, _ := args.Lookup(i, param)

	c, ok := v.AsCallable()
	if !ok {
		return nil, argError(fn, param, "callable", v)
	}

	return c, nil
}

// entry is one element of a sequence or mapping together with its key.
type entry struct {
	key lang.Value
	val lang.Value
}

// entries returns the elements of a sequence, keyed by index, or of a
// mapping, keyed by name.
func entries(v lang.Value) ([]entry, bool) {
	if s, ok := v.AsSequence(); ok {
		es := make([]entry, len(s))
		for i, e := range s {
			es[i] = entry{key: lang.Int(int64(i)), val: e}
		}

		return es, true
	}

	if m, ok := v.AsMapping(); ok {
		es := make([]entry, 0, m.Len())
		for k, e := range m.All() {
			es = append(es, entry{key: keyValue(k), val: e})
		}

		return es, true
	}

	return nil, false
}

func argEntries(fn string, args lang.Args, i int, param string) ([]entry, error) {
	v, _ := args.Lookup(i, param)

	es, ok := entries(v)
	if !ok {
		return nil, argError(fn, param, "sequence or mapping", v)
	}

	return es, nil
}

// keyValue returns a mapping key as an integer when it is written as one.
func keyValue(k string) lang.Value {
	if i, err := strconv.ParseInt(k, 10, 64); err == nil && strconv.FormatInt(i, 10) == k {
		return lang.Int(i)
	}

	return lang.String(k)
}

// isList reports whether the keys of es are 0, 1, 2, ... in order.
func isList(es []entry) bool {
	for i, e := range es {
		if n, ok := e.key.AsInt(); !ok || !e.key.IsInt() || n != int64(i) {
			return false
		}
	}

	return true
}

// build returns es as a sequence when its keys form a list, and as a mapping
// otherwise.
func build(es []entry) lang.Value {
	if isList(es) {
		vals := make([]lang.Value, len(es))
		for i, e := range es {
			vals[i] = e.val
		}

		return lang.Sequence(vals...)
	}

	m := lang.NewMapping()
	for _, e := range es {
		m.Set(e.key.String(), e.val)
	}

	return lang.MappingValue(m)
}
