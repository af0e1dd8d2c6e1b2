package ext

import (
	"context"
	"unicode/utf8"

	"github.com/ardnew/smpl/lang"
)

// Arrays returns functions over sequences and mappings.
//
//	array_key_exists(key, array)    whether array has key
//	array_map(callback, array...)   callback applied to each element
//	array_sum(array)                sum of the elements
//	array_keys(array)               keys as a sequence
//	array_merge(array...)           arrays joined, integer keys renumbered
//	array_filter(array, callback?)  elements for which callback is truthy
//	array_search(needle, array, strict?) key of needle, or false
//	array_is_list(array)            whether keys are 0, 1, 2, ...
//	count(value)                    number of elements or characters
//
// Sequence elements are keyed by index. A result whose keys are not 0, 1,
// 2, ... in order is a mapping.
func Arrays() *lang.Mapping {
	return newLibrary().
		def("array_key_exists", arrayKeyExists).
		def("array_map", arrayMap).
		def("array_sum", arraySum).
		def("array_keys", arrayKeys).
		def("array_merge", arrayMerge).
		def("array_filter", arrayFilter).
		def("array_search", arraySearch).
		def("array_is_list", arrayIsList).
		def("count", count).
		m
}

func arrayKeyExists(_ context.Context, args lang.Args) (lang.Value, error) {
	const fn = "array_key_exists"

	key, _ := args.Lookup(0, "key")

	es, err := argEntries(fn, args, 1, "array")
	if err != nil {
		return lang.Null(), err
	}

	for _, e := range es {
		if e.key.String() == key.String() {
			return lang.Bool(true), nil
		}
	}

	return lang.Bool(false), nil
}

func arrayMap(ctx context.Context, args lang.Args) (lang.Value, error) {
	const fn = "array_map"

	cb, _ := args.Lookup(0, "callback")

	var call lang.Callable

	if !cb.IsNull() {
		c, ok := cb.AsCallable()
		if !ok {
			return lang.Null(), argError(fn, "callback", "callable or null", cb)
		}

		call = c
	}

	if args.Len() < 2 {
		return lang.Null(), argError(fn, "array", "sequence or mapping", lang.Null())
	}

	arrays := make([][]entry, args.Len()-1)

	for i := range arrays {
		es, err := argEntries(fn, args, i+1, "array")
		if err != nil {
			return lang.Null(), err
		}

		arrays[i] = es
	}

	if len(arrays) == 1 {
		out := make([]entry, len(arrays[0]))

		for i, e := range arrays[0] {
			out[i] = e

			if call != nil {
				v, err := call.Call(ctx, lang.ArgsOf(e.val))
				if err != nil {
					return lang.Null(), err
				}

				out[i].val = v
			}
		}

		return build(out), nil
	}

	// Several arrays are walked in parallel, padding the shorter with null.
	n := 0
	for _, es := range arrays {
		n = max(n, len(es))
	}

	out := make([]lang.Value, n)

	for i := range n {
		row := make([]lang.Value, len(arrays))
		for j, es := range arrays {
			if i < len(es) {
				row[j] = es[i].val
			}
		}

		if call == nil {
			out[i] = lang.Sequence(row...)

			continue
		}

		v, err := call.Call(ctx, lang.ArgsOf(row...))
		if err != nil {
			return lang.Null(), err
		}

		out[i] = v
	}

	return lang.Sequence(out...), nil
}

func arraySum(_ context.Context, args lang.Args) (lang.Value, error) {
	es, err := argEntries("array_sum", args, 0, "array")
	if err != nil {
		return lang.Null(), err
	}

	sum := lang.Int(0)

	for _, e := range es {
		if sum, err = lang.Add(sum, e.val); err != nil {
			return lang.Null(), err
		}
	}

	return sum, nil
}

func arrayKeys(_ context.Context, args lang.Args) (lang.Value, error) {
	es, err := argEntries("array_keys", args, 0, "array")
	if err != nil {
		return lang.Null(), err
	}

	keys := make([]lang.Value, len(es))
	for i, e := range es {
		keys[i] = e.key
	}

	return lang.Sequence(keys...), nil
}

func arrayMerge(_ context.Context, args lang.Args) (lang.Value, error) {
	var (
		out  []entry
		at   = make(map[string]int)
		next int64
	)

	for i := range args.Len() {
		es, err := argEntries("array_merge", args, i, "array")
		if err != nil {
			return lang.Null(), err
		}

		for _, e := range es {
			if e.key.IsInt() {
				out = append(out, entry{key: lang.Int(next), val: e.val})
				next++

				continue
			}

			if j, ok := at[e.key.String()]; ok {
				out[j].val = e.val

				continue
			}

			at[e.key.String()] = len(out)
			out = append(out, e)
		}
	}

	return build(out), nil
}

func arrayFilter(ctx context.Context, args lang.Args) (lang.Value, error) {
	const fn = "array_filter"

	es, err := argEntries(fn, args, 0, "array")
	if err != nil {
		return lang.Null(), err
	}

	var call lang.Callable

	if cb, _ := args.Lookup(1, "callback"); !cb.IsNull() {
		if call, err = argCallable(fn, args, 1, "callback"); err != nil {
			return lang.Null(), err
		}
	}

	out := make([]entry, 0, len(es))

	for _, e := range es {
		keep := e.val

		if call != nil {
			if keep, err = call.Call(ctx, lang.ArgsOf(e.val)); err != nil {
				return lang.Null(), err
			}
		}

		if keep.Truthy() {
			out = append(out, e)
		}
	}

	return build(out), nil
}

func arraySearch(_ context.Context, args lang.Args) (lang.Value, error) {
	needle, _ := args.Lookup(0, "needle")

	es, err := argEntries("array_search", args, 1, "array")
	if err != nil {
		return lang.Null(), err
	}

	equal := lang.Equal
	if strict, _ := args.Lookup(2, "strict"); strict.Truthy() {
		equal = lang.Identical
	}

	for _, e := range es {
		if equal(e.val, needle) {
			return e.key, nil
		}
	}

	return lang.Bool(false), nil
}

func arrayIsList(_ context.Context, args lang.Args) (lang.Value, error) {
	es, err := argEntries("array_is_list", args, 0, "array")
	if err != nil {
		return lang.Null(), err
	}

	return lang.Bool(isList(es)), nil
}

func count(_ context.Context, args lang.Args) (lang.Value, error) {
	v, _ := args.Lookup(0, "value")

	if s, ok := v.AsString(); ok {
		return lang.Int(int64(utf8.RuneCountInString(s))), nil
	}

	es, ok := entries(v)
	if !ok {
		return lang.Null(), argError("count", "value", "sequence, mapping, or string", v)
	}

	return lang.Int(int64(len(es))), nil
}
