package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  config
	}{
		{
			name: "flags",
			input: `
config:
  log-level: debug
  log_format: json
  log-pretty: false
  count: 3
  bindings:
    - a.yaml
    - b.toml
`,
			want: config{
				"log-level":  "debug",
				"log_format": "json",
				"log-pretty": false,
				"count":      "3",
				"bindings":   []any{"a.yaml", "b.toml"},
			},
		},
		{
			name:  "other mapping",
			input: "other:\n  log-level: debug\n",
			want:  config{},
		},
		{
			name:  "not a mapping",
			input: "config: 42\n",
			want:  config{},
		},
		{
			name:  "invalid",
			input: "config: [unterminated\n",
			want:  config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resolve("config")(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}

			got, ok := r.(config)
			if !ok {
				t.Fatalf("resolve() = %T, want config", r)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolve() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigResolve(t *testing.T) {
	c := config{
		"log-level":  "debug",
		"log_format": "json",
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-caller", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := c.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.flag, got, tt.want)
			}
		})
	}

	if err := c.Validate(nil); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
