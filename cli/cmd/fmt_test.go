package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestFmtRun(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "vars.yaml", "a: 1\nb: [x, y]\n")

	setup := Setup{
		Bindings: []string{file},
		Defines:  []string{"c=a + 1"},
	}

	tests := []struct {
		name   string
		format string
		names  []string
		want   string
	}{
		{
			name:   "native",
			format: formatNative,
			want:   "{a: 1, b: [\"x\", \"y\"], c: 2}\n",
		},
		{
			name:   "native_selected",
			format: formatNative,
			names:  []string{"c", "a"},
			want:   "{c: 2, a: 1}\n",
		},
		{
			name:   "json",
			format: formatJSON,
			want:   "{\"a\":1,\"b\":[\"x\",\"y\"],\"c\":2}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithStdio(WithSetup(t.Context(), setup), Stdio{Out: &out})
			opts := FmtOptions{Names: tt.names}

			if err := opts.run(ctx, tt.format); err != nil {
				t.Fatalf("run() error = %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestFmtRun_Commands(t *testing.T) {
	var out bytes.Buffer

	ctx := WithStdio(
		WithSetup(t.Context(), Setup{Defines: []string{"x=1"}}),
		Stdio{Out: &out},
	)

	if err := (&JSON{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if out.String() != "{\"x\":1}\n" {
		t.Errorf("json output = %q", out.String())
	}

	out.Reset()

	if err := (&Native{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if out.String() != "{x: 1}\n" {
		t.Errorf("native output = %q", out.String())
	}
}

func TestFmtRun_Errors(t *testing.T) {
	opts := FmtOptions{Names: []string{"missing"}}

	err := opts.run(WithStdio(t.Context(), Stdio{Out: &bytes.Buffer{}}), formatNative)
	if !errors.Is(err, ErrUndefined) {
		t.Errorf("run() error = %v, want ErrUndefined", err)
	}

	ctx := WithSetup(t.Context(), Setup{Bindings: []string{filepath.Join(t.TempDir(), "none.yaml")}})

	err = (&FmtOptions{}).run(ctx, formatNative)
	if !errors.Is(err, ErrLoadBindings) {
		t.Errorf("run() error = %v, want ErrLoadBindings", err)
	}
}
