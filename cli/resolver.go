package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the YAML mapping named name, as written by the init command:
//
//	config:
//	  log-level: debug
//	  log-format: json
//	  bindings:
//	    - ~/.config/smpl/site.yaml
//
// Keys are flag names. Hyphens may be written as underscores. Command-line
// flags override values from the file.
//
// A file that cannot be parsed, or that has no mapping named name, resolves
// no flags.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return config{}, nil
		}

		m, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		c := make(config, len(m))
		for k, v := range m {
			c[k] = flagValue(v)
		}

		return c, nil
	}
}

// flagValue converts a decoded YAML value into a form kong can map. Kong
// parses numbers from their string form.
func flagValue(v any) any {
	switch x := v.(type) {
	case int, int64, uint64, float64:
		return fmt.Sprint(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}

// config implements [kong.Resolver] for flag values read by [resolve].
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if v, ok := r[flag.Name]; ok {
		return v, nil
	}

	if v, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}
