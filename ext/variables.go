package ext

import (
	"context"

	"github.com/ardnew/smpl/lang"
)

// Variables returns functions over the bindings of store.
//
//	isset(name)   whether name is bound to a non-null value
//	unset(name)   removes name; returns null
//
// Changes made by unset are seen by evaluations that start afterward.
func Variables(store Store) *lang.Mapping {
	return newLibrary().
		def("isset", func(_ context.Context, args lang.Args) (lang.Value, error) {
			name, err := argString("isset", args, 0, "name")
			if err != nil {
				return lang.Null(), err
			}

			v, ok := store.Lookup(name)

			return lang.Bool(ok && !v.IsNull()), nil
		}).
		def("unset", func(_ context.Context, args lang.Args) (lang.Value, error) {
			name, err := argString("unset", args, 0, "name")
			if err != nil {
				return lang.Null(), err
			}

			store.Unset(name)

			return lang.Null(), nil
		}).
		m
}
