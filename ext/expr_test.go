package ext_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/smpl/lang"
)

func TestExpr(t *testing.T) {
	ev := newEvaluator(
		lang.Pair{Key: "x", Value: lang.Int(41)},
		lang.Pair{Key: "cfg", Value: lang.MappingValue(lang.MappingOf(
			lang.Pair{Key: "host", Value: lang.String("localhost")},
		))},
		lang.Pair{Key: "double", Value: lang.CallableValue(lang.Func(
			func(_ context.Context, args lang.Args) (lang.Value, error) {
				return lang.Add(args.At(0), args.At(0))
			}))},
	)

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"arithmetic", "expr('1 + 2')", "3"},
		{"binding", "expr('x + 1')", "42"},
		{"env argument", "expr('n * 2', {n: 21})", "42"},
		{"env overrides binding", "expr('x', {x: 'y'})", `"y"`},
		{"member", "expr('cfg.host')", `"localhost"`},
		{"callable", "expr('double(4)')", "8"},
		{"array", "expr('[1, 2]')", "[1, 2]"},
		{"builtin", `expr('upper("a")')`, `"A"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lang.FormatResult(eval(t, ev, tt.expr))
			if got != tt.want {
				t.Errorf("%s = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestExpr_Cached(t *testing.T) {
	ev := newEvaluator(lang.Pair{Key: "x", Value: lang.Int(1)})

	for range 3 {
		if got := eval(t, ev, "expr('x * 10')"); !lang.Identical(got, lang.Int(10)) {
			t.Fatalf("expr = %v, want 10", got)
		}
	}

	// A binding of another type compiles a new program.
	ev.Set("x", lang.String("a"))

	if got := eval(t, ev, "expr('x + \"b\"')"); !lang.Identical(got, lang.String("ab")) {
		t.Errorf("expr = %v, want ab", got)
	}
}

func TestExpr_Errors(t *testing.T) {
	ev := newEvaluator()

	for _, expr := range []string{
		"expr('1 +')",
		"expr('unknown_name')",
		"expr('1', 2)",
		"expr(1)",
	} {
		_, err := ev.Evaluate(t.Context(), expr)
		if !errors.Is(err, lang.ErrArgument) {
			t.Errorf("%s error = %v, want %v", expr, err, lang.ErrArgument)
		}
	}
}
