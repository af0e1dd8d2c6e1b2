package ext_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ardnew/smpl/lang"
)

func TestSystem(t *testing.T) {
	t.Setenv("SMPL_TEST_VAR", "value")

	ev := newEvaluator()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		expr string
		want lang.Value
	}{
		{"env('SMPL_TEST_VAR')", lang.String("value")},
		{"env('SMPL_TEST_UNSET_VAR')", lang.Null()},
		{"env().SMPL_TEST_VAR", lang.String("value")},
		{"cwd()", lang.String(wd)},
		{"path_join('a', 'b', 'c')", lang.String(filepath.Join("a", "b", "c"))},
		{"path_abs('x')", lang.String(filepath.Join(wd, "x"))},
		{"path_rel('a', 'a/b/c')", lang.String(filepath.Join("b", "c"))},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := eval(t, ev, tt.expr); !lang.Identical(got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestSystem_Platform(t *testing.T) {
	ev := newEvaluator()

	for _, expr := range []string{"platform.os", "platform.arch", "target.os", "target.arch"} {
		if got := eval(t, ev, expr); got.Kind() != lang.KindString {
			t.Errorf("%s kind = %v, want string", expr, got.Kind())
		}
	}

	if os.Getenv("GOHOSTOS") == "" && os.Getenv("GOOS") == "" {
		if got := eval(t, ev, "platform.os"); !lang.Identical(got, lang.String(runtime.GOOS)) {
			t.Errorf("platform.os = %v, want %s", got, runtime.GOOS)
		}
	}
}
