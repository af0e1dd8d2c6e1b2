package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/smpl/lang"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func render(t *testing.T, v lang.Value) string {
	t.Helper()

	return lang.FormatResult(v)
}

func TestUniquePaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "x: 1")
	b := writeFile(t, dir, "b.yaml", "y: 2")

	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(a, link); err != nil {
		link = a
	}

	missing := filepath.Join(dir, "missing.yaml")

	got := uniquePaths([]string{a, b, link, a, missing, missing})
	want := []string{a, b, missing, missing}

	if !slices.Equal(got, want) {
		t.Errorf("uniquePaths() = %v, want %v", got, want)
	}
}

func TestNewSession(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.yaml", "name: first\nport: 80\n")
	second := writeFile(t, dir, "second.json", `{"name": "second"}`)
	third := writeFile(t, dir, "third.toml", "debug = true\n")

	ctx := WithSetup(t.Context(), Setup{
		Bindings: []string{first, second, third},
		Defines:  []string{"url=name ~ ':' ~ port", " twice = port * 2"},
	})

	s, err := newSession(ctx)
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}

	want := map[string]string{
		"name":  `"second"`,
		"port":  "80",
		"debug": "true",
		"url":   `"second:80"`,
		"twice": "160",
	}

	for name, w := range want {
		v, ok := s.host.Get(name)
		if !ok {
			t.Errorf("host binding %q missing", name)

			continue
		}

		if got := render(t, v); got != w {
			t.Errorf("%s = %s, want %s", name, got, w)
		}
	}

	if got := s.host.Keys(); !slices.Equal(got, []string{"name", "port", "debug", "url", "twice"}) {
		t.Errorf("host keys = %v", got)
	}

	if _, ok := s.ev.Lookup("count"); !ok {
		t.Error("extension binding count missing")
	}
}

func TestNewSession_NoExt(t *testing.T) {
	s, err := newSession(WithSetup(t.Context(), Setup{NoExt: true}))
	if err != nil {
		t.Fatal(err)
	}

	if n := s.ev.Bindings().Len(); n != 0 {
		t.Errorf("bindings = %d, want 0", n)
	}
}

func TestNewSession_HostOverridesExt(t *testing.T) {
	ctx := WithSetup(t.Context(), Setup{Defines: []string{"count=1"}})

	s, err := newSession(ctx)
	if err != nil {
		t.Fatal(err)
	}

	v, _ := s.ev.Lookup("count")
	if got := render(t, v); got != "1" {
		t.Errorf("count = %s, want 1", got)
	}
}

func TestNewSession_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "- not\n- a mapping\n")

	tests := []struct {
		name  string
		setup Setup
		want  error
	}{
		{"missing_file", Setup{Bindings: []string{filepath.Join(dir, "nope.yaml")}}, ErrLoadBindings},
		{"not_mapping", Setup{Bindings: []string{bad}}, ErrLoadBindings},
		{"no_equals", Setup{Defines: []string{"name"}}, ErrDefine},
		{"empty_name", Setup{Defines: []string{"=1"}}, ErrDefine},
		{"undefined_with_ext", Setup{Defines: []string{"x=no_such_binding"}}, ErrEvaluate},
		{"undefined", Setup{Defines: []string{"x=nope"}, NoExt: true}, ErrEvaluate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSession(WithSetup(t.Context(), tt.setup))
			if !errors.Is(err, tt.want) {
				t.Errorf("newSession() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()

	if kongContextFrom(ctx) != nil {
		t.Error("kongContextFrom() != nil")
	}

	if p := pathsFrom(ctx); p != (Paths{}) {
		t.Errorf("pathsFrom() = %v", p)
	}

	s := stdioFrom(ctx)
	if s.In != os.Stdin || s.Out != os.Stdout {
		t.Error("stdioFrom() does not default to process streams")
	}
}
