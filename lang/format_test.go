package lang

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "null"},
		{"bool", Bool(false), "false"},
		{"int", Int(7), "7"},
		{"integral float", Float(2), "2.0"},
		{"float", Float(2.5), "2.5"},
		{"string", String("a \"q\" <b>\n"), `"a \"q\" <b>\n"`},
		{"sequence", Sequence(Int(1), String("a"), Float(2)), `[1, "a", 2.0]`},
		{
			"mapping",
			MappingValue(MappingOf(Pair{"a", Int(1)}, Pair{"b c", Null()}, Pair{"0", Bool(true)})),
			`{a: 1, "b c": null, 0: true}`,
		},
		{"empty key", MappingValue(MappingOf(Pair{"", Int(1)})), `{"": 1}`},
		{"callable", CallableValue(Func(nil)), "<callable>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResult(tt.v); got != tt.want {
				t.Errorf("FormatResult() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormat_Indent(t *testing.T) {
	v := MappingValue(MappingOf(
		Pair{"a", Sequence(Int(1))},
		Pair{"b", MappingValue(NewMapping())},
	))

	var buf bytes.Buffer
	if err := Format(&buf, v, 2); err != nil {
		t.Fatalf("Format error: %v", err)
	}

	want := "{\n  a: [\n    1,\n  ],\n  b: {},\n}"
	if got := buf.String(); got != want {
		t.Errorf("Format mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestFormat_ReadsBack(t *testing.T) {
	exprs := []string{
		`{name: "svc", ports: [80, 443], ratio: 0.5, tags: {"a b": true, 0: null}}`,
		`["x", -1, 1.0, [], {}]`,
	}

	for _, expr := range exprs {
		v, err := New().Evaluate(t.Context(), expr)
		if err != nil {
			t.Fatalf("Evaluate(%s) error: %v", expr, err)
		}

		for _, indent := range []int{0, 4} {
			var buf bytes.Buffer
			if err := Format(&buf, v, indent); err != nil {
				t.Fatalf("Format error: %v", err)
			}

			back, err := New().Evaluate(t.Context(), buf.String())
			if err != nil {
				t.Fatalf("Evaluate(%s) error: %v", buf.String(), err)
			}

			if !strictEqual(back, v) {
				t.Errorf("indent %d: %s reads back as %s", indent, buf.String(), FormatResult(back))
			}
		}
	}
}

func TestFormatJSON(t *testing.T) {
	v := MappingValue(MappingOf(
		Pair{"b", Int(1)},
		Pair{"a", Sequence(Bool(true), Null(), String("<x>"))},
	))

	var buf bytes.Buffer
	if err := FormatJSON(&buf, v, 0); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	want := `{"b":1,"a":[true,null,"<x>"]}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("FormatJSON = %q, want %q", got, want)
	}

	buf.Reset()

	if err := FormatJSON(&buf, v, 2); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"b\": 1,\n") {
		t.Errorf("FormatJSON indent 2 = %q", buf.String())
	}
}

func TestFormatYAML(t *testing.T) {
	v := MappingValue(MappingOf(
		Pair{"name", String("svc")},
		Pair{"count", Int(2)},
	))

	var buf bytes.Buffer
	if err := FormatYAML(t.Context(), &buf, v, 2); err != nil {
		t.Fatalf("FormatYAML error: %v", err)
	}

	got := buf.String()

	name, count := strings.Index(got, "name: svc"), strings.Index(got, "count: 2")
	if name < 0 || count < 0 || name > count {
		t.Errorf("FormatYAML = %q, want name then count", got)
	}
}
