package ext

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/smpl/lang"
)

// programs caches compiled expr-lang programs keyed by the hash of their
// source and the shape of their environment.
var programs sync.Map

// Expr returns a function that evaluates expr-lang source.
//
//	expr(source, env?)   result of source
//
// The environment holds the bindings of store overlaid with the entries of
// the optional env mapping. Sequences and mappings are passed as []any and
// map[string]any; callables become variadic functions.
func Expr(store Store) *lang.Mapping {
	return newLibrary().
		def("expr", func(ctx context.Context, args lang.Args) (lang.Value, error) {
			source, err := argString("expr", args, 0, "source")
			if err != nil {
				return lang.Null(), err
			}

			bindings := store.Bindings()

			if extra, ok := args.Lookup(1, "env"); ok && !extra.IsNull() {
				m, ok := extra.AsMapping()
				if !ok {
					return lang.Null(), argError("expr", "env", "mapping", extra)
				}

				bindings.Merge(m)
			}

			return runExpr(ctx, source, bindings)
		}).
		m
}

func runExpr(ctx context.Context, source string, bindings *lang.Mapping) (lang.Value, error) {
	env := make(map[string]any, bindings.Len())
	for k, v := range bindings.All() {
		env[k] = toExpr(ctx, v)
	}

	program, err := compileExpr(source, env)
	if err != nil {
		return lang.Null(), err
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return lang.Null(), lang.ErrArgument.Detail("expr").Wrap(err).
			With(slog.String("source", source))
	}

	return lang.FromNative(out)
}

// compileExpr returns the cached program for source and env, compiling it on
// first use.
func compileExpr(source string, env map[string]any) (*vm.Program, error) {
	key := programKey(source, env)

	if p, ok := programs.Load(key); ok {
		return p.(*vm.Program), nil
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, lang.ErrArgument.Detail("expr").Wrap(err).
			With(slog.String("source", source))
	}

	p, _ := programs.LoadOrStore(key, program)

	return p.(*vm.Program), nil
}

// programKey hashes source with the names and Go types of env. Programs are
// type-checked against env, so a binding that changes type needs a new
// program.
func programKey(source string, env map[string]any) uint64 {
	names := make([]string, 0, len(env))
	for k := range env {
		names = append(names, k)
	}

	sort.Strings(names)

	var sb strings.Builder

	sb.WriteString(source)

	for _, k := range names {
		fmt.Fprintf(&sb, "\x00%s:%T", k, env[k])
	}

	return xxh3.HashString(sb.String())
}

// toExpr converts v to the Go data expr-lang operates on.
func toExpr(ctx context.Context, v lang.Value) any {
	switch v.Kind() {
	case lang.KindNumber:
		if i, ok := v.AsInt(); ok && v.IsInt() {
			return int(i)
		}

		return v.Native()
	case lang.KindSequence:
		s, _ := v.AsSequence()

		out := make([]any, len(s))
		for i, e := range s {
			out[i] = toExpr(ctx, e)
		}

		return out
	case lang.KindMapping:
		m, _ := v.AsMapping()

		out := make(map[string]any, m.Len())
		for k, e := range m.All() {
			out[k] = toExpr(ctx, e)
		}

		return out
	case lang.KindCallable:
		c, _ := v.AsCallable()

		return func(params ...any) (any, error) {
			args := make([]lang.Value, len(params))

			for i, p := range params {
				a, err := lang.FromNative(p)
				if err != nil {
					return nil, err
				}

				args[i] = a
			}

			r, err := c.Call(ctx, lang.ArgsOf(args...))
			if err != nil {
				return nil, err
			}

			return toExpr(ctx, r), nil
		}
	case lang.KindHandle:
		h, _ := v.AsHandle()

		return h
	default:
		return v.Native()
	}
}
