package lang

import (
	"context"
	"math"
	"slices"
	"testing"
)

func TestValue_Kind(t *testing.T) {
	tests := []struct {
		v    Value
		want Kind
		name string
	}{
		{Null(), KindNull, "null"},
		{Value{}, KindNull, "null"},
		{Bool(false), KindBool, "bool"},
		{Int(1), KindNumber, "number"},
		{Float(1), KindNumber, "number"},
		{String(""), KindString, "string"},
		{Sequence(), KindSequence, "sequence"},
		{MappingValue(nil), KindMapping, "mapping"},
		{CallableValue(Func(nil)), KindCallable, "callable"},
		{HandleValue(NewObject("T")), KindHandle, "handle"},
		{CallableValue(nil), KindNull, "null"},
		{HandleValue(nil), KindNull, "null"},
	}

	for _, tt := range tests {
		if got := tt.v.Kind(); got != tt.want {
			t.Errorf("Kind() = %v, want %v", got, tt.want)
		}

		if got := tt.v.Kind().String(); got != tt.name {
			t.Errorf("Kind().String() = %q, want %q", got, tt.name)
		}
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Null(), false},
		{Bool(false), false},
		{Bool(true), true},
		{Int(0), false},
		{Int(-1), true},
		{Float(0), false},
		{Float(0.1), true},
		{String(""), false},
		{String("0"), false},
		{String("0.0"), true},
		{String("false"), true},
		{Sequence(), false},
		{Sequence(Null()), true},
		{MappingValue(NewMapping()), false},
		{MappingValue(MappingOf(Pair{"a", Null()})), true},
		{HandleValue(NewObject("T")), true},
	}

	for _, tt := range tests {
		if got := tt.v.Truthy(); got != tt.want {
			t.Errorf("Truthy(%s) = %v, want %v", FormatResult(tt.v), got, tt.want)
		}
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), ""},
		{Bool(true), "1"},
		{Bool(false), ""},
		{Int(-42), "-42"},
		{Float(1), "1"},
		{Float(0.1), "0.1"},
		{Float(1e20), "1E+20"},
		{Float(math.Inf(1)), "INF"},
		{String("x"), "x"},
		{Sequence(Int(1), String("a")), `[1, "a"]`},
		{MappingValue(MappingOf(Pair{"k", Bool(true)})), "{k: true}"},
		{CallableValue(Func(nil)), "<callable>"},
		{HandleValue(NewObject("Point")), "<Point>"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text string
		want Value
		ok   bool
	}{
		{"0", Int(0), true},
		{"+12", Int(12), true},
		{"-12", Int(-12), true},
		{"1.", Float(1), true},
		{".25", Float(0.25), true},
		{"-.25", Float(-0.25), true},
		{"2e2", Float(200), true},
		{"2E-2", Float(0.02), true},
		{"99999999999999999999", Float(1e20), true},
		{"", Null(), false},
		{"-", Null(), false},
		{"1e", Null(), false},
		{"0x10", Null(), false},
		{"1_000", Null(), false},
		{"abc", Null(), false},
	}

	for _, tt := range tests {
		got, ok := parseNumber(tt.text)
		if ok != tt.ok || !strictEqual(got, tt.want) {
			t.Errorf("parseNumber(%q) = %s, %v, want %s, %v",
				tt.text, FormatResult(got), ok, FormatResult(tt.want), tt.ok)
		}
	}
}

func TestMapping(t *testing.T) {
	m := MappingOf(Pair{"a", Int(1)}, Pair{"b", Int(2)}, Pair{"c", Int(3)})

	m.Set("a", Int(10))

	if got := m.Keys(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() after overwrite = %v", got)
	}

	if v, _ := m.Get("a"); !strictEqual(v, Int(10)) {
		t.Errorf("Get(a) = %s, want 10", FormatResult(v))
	}

	if !m.Delete("b") || m.Delete("b") {
		t.Errorf("Delete(b) did not report the removal once")
	}

	m.Set("d", Int(4))

	if got := m.Keys(); !slices.Equal(got, []string{"a", "c", "d"}) {
		t.Errorf("Keys() after delete = %v", got)
	}

	if v, ok := m.Get("d"); !ok || !strictEqual(v, Int(4)) {
		t.Errorf("Get(d) = %s, %v", FormatResult(v), ok)
	}

	c := m.Clone()
	c.Set("a", Null())

	if v, _ := m.Get("a"); !strictEqual(v, Int(10)) {
		t.Errorf("Clone shares entries with the original")
	}

	var nilMap *Mapping

	if nilMap.Len() != 0 || nilMap.Has("x") || nilMap.Keys() != nil {
		t.Errorf("nil mapping is not empty")
	}
}

func TestArgs_Lookup(t *testing.T) {
	args := Args{
		Values: []Value{Int(1), Int(2)},
		Named:  MappingOf(Pair{"name", String("n")}),
	}

	if v, ok := args.Lookup(0, "name"); !ok || !strictEqual(v, String("n")) {
		t.Errorf("Lookup(0, name) = %s, %v, want named value", FormatResult(v), ok)
	}

	if v, ok := args.Lookup(1, "other"); !ok || !strictEqual(v, Int(2)) {
		t.Errorf("Lookup(1, other) = %s, %v, want 2", FormatResult(v), ok)
	}

	if _, ok := args.Lookup(5, "other"); ok {
		t.Errorf("Lookup(5, other) found a value")
	}

	if !args.At(7).IsNull() {
		t.Errorf("At(7) is not null")
	}
}

type dynamic struct{ calls []string }

func (*dynamic) TypeName() string { return "Dynamic" }

func (d *dynamic) CallDynamic(_ context.Context, name string, args Args) (Value, error) {
	d.calls = append(d.calls, name)

	return String(name + ":" + args.At(0).String()), nil
}

func TestResolve_Dynamic(t *testing.T) {
	d := &dynamic{}
	ev := New(WithBinding("d", HandleValue(d)))

	got, err := ev.Evaluate(t.Context(), "d.anything('x')")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if s, _ := got.AsString(); s != "anything:x" {
		t.Errorf("d.anything('x') = %q, want %q", s, "anything:x")
	}

	if !slices.Equal(d.calls, []string{"anything"}) {
		t.Errorf("calls = %v", d.calls)
	}
}

func TestResolve_PropertyBeforeMethod(t *testing.T) {
	obj := NewObject("T").
		WithProperty("name", String("prop")).
		WithMethod("name", func(context.Context, Args) (Value, error) {
			return String("method"), nil
		})

	got, err := resolve(HandleValue(obj), String("name"), "obj")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if s, _ := got.AsString(); s != "prop" {
		t.Errorf("resolve(name) = %s, want the property", FormatResult(got))
	}

	if got := obj.Methods(); !slices.Equal(got, []string{"name"}) {
		t.Errorf("Methods() = %v", got)
	}
}
