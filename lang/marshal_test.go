package lang

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
)

func TestFromNative(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"bool", true, "true"},
		{"int", 3, "3"},
		{"int8", int8(-3), "-3"},
		{"uint32", uint32(7), "7"},
		{"large uint64", uint64(math.MaxUint64), "1.8446744073709552E+19"},
		{"float32", float32(0.5), "0.5"},
		{"string", "s", `"s"`},
		{"bytes", []byte("b"), `"b"`},
		{"json number int", json.Number("12"), "12"},
		{"json number float", json.Number("1.5"), "1.5"},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), `"2024-01-02T03:04:05Z"`},
		{"any slice", []any{1, "a", nil}, `[1, "a", null]`},
		{"typed slice", []int{1, 2}, "[1, 2]"},
		{"array", [2]string{"x", "y"}, `["x", "y"]`},
		{"map sorted", map[string]any{"b": 1, "a": []any{true}}, "{a: [true], b: 1}"},
		{"typed map", map[string]int{"z": 1, "y": 2}, "{y: 2, z: 1}"},
		{
			"ordered map",
			yaml.MapSlice{{Key: "z", Value: 1}, {Key: 2, Value: "two"}, {Key: true, Value: nil}},
			`{z: 1, 2: "two", true: null}`,
		},
		{"value", Int(9), "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromNative(tt.in)
			if err != nil {
				t.Fatalf("FromNative(%#v) error: %v", tt.in, err)
			}

			if got := FormatResult(v); got != tt.want {
				t.Errorf("FromNative(%#v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromNative_Callables(t *testing.T) {
	fn := func(_ context.Context, args Args) (Value, error) { return args.At(0), nil }

	v, err := FromNative(fn)
	if err != nil {
		t.Fatalf("FromNative(func) error: %v", err)
	}

	c, ok := v.AsCallable()
	if !ok {
		t.Fatalf("FromNative(func) kind = %s, want callable", v.Kind())
	}

	if got, _ := c.Call(t.Context(), ArgsOf(Int(4))); !strictEqual(got, Int(4)) {
		t.Errorf("Call = %s, want 4", FormatResult(got))
	}

	h, err := FromNative(NewObject("Obj"))
	if err != nil || h.Kind() != KindHandle {
		t.Errorf("FromNative(*Object) = %s, %v, want handle", h.Kind(), err)
	}
}

func TestFromNative_Invalid(t *testing.T) {
	for _, in := range []any{struct{}{}, make(chan int), map[int]string{1: "x"}, []any{struct{}{}}} {
		if _, err := FromNative(in); !errors.Is(err, ErrInvalidValueType) {
			t.Errorf("FromNative(%T) error = %v, want %v", in, err, ErrInvalidValueType)
		}
	}
}

func TestNative_RoundTrip(t *testing.T) {
	v, err := New().Evaluate(t.Context(), `{a: [1, 2.5, "s"], b: {c: null, d: true}}`)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	back, err := FromNative(v.Native())
	if err != nil {
		t.Fatalf("FromNative error: %v", err)
	}

	if !strictEqual(back, v) {
		t.Errorf("FromNative(Native()) = %s, want %s", FormatResult(back), FormatResult(v))
	}
}
