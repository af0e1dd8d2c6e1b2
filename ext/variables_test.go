package ext_test

import (
	"testing"

	"github.com/ardnew/smpl/lang"
)

func TestVariables(t *testing.T) {
	ev := newEvaluator(
		lang.Pair{Key: "x", Value: lang.Int(1)},
		lang.Pair{Key: "nothing", Value: lang.Null()},
	)

	tests := []struct {
		expr string
		want lang.Value
	}{
		{"isset('x')", lang.Bool(true)},
		{"isset('nothing')", lang.Bool(false)},
		{"isset('undefined')", lang.Bool(false)},
		{"isset(name: 'x')", lang.Bool(true)},
		{"unset('undefined')", lang.Null()},
		{"unset('x')", lang.Null()},
		{"isset('x')", lang.Bool(false)},
	}

	for _, tt := range tests {
		if got := eval(t, ev, tt.expr); !lang.Identical(got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
		}
	}

	if _, err := ev.Evaluate(t.Context(), "x"); err == nil {
		t.Errorf("x is still bound after unset")
	}
}
