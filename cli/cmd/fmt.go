package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/smpl/lang"
)

// Fmt prints the bindings loaded from files and definitions.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as expression syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// FmtOptions are the arguments shared by the fmt subcommands.
type FmtOptions struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Names []string `arg:"" help:"Binding names to print; all if none" name:"name" optional:""`
}

// Native formats bindings in expression syntax.
type Native struct {
	FmtOptions `embed:""`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error { return f.run(ctx, formatNative) }

// JSON formats bindings as JSON.
type JSON struct {
	FmtOptions `embed:""`
}

// Run executes the json command.
func (f *JSON) Run(ctx context.Context) error { return f.run(ctx, formatJSON) }

// YAML formats bindings as YAML.
type YAML struct {
	FmtOptions `embed:""`
}

// Run executes the yaml command.
func (f *YAML) Run(ctx context.Context) error { return f.run(ctx, formatYAML) }

func (f *FmtOptions) run(ctx context.Context, format string) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	m := s.host

	if len(f.Names) > 0 {
		m = lang.NewMapping()

		for _, name := range f.Names {
			v, ok := s.host.Get(name)
			if !ok {
				return ErrUndefined.With(slog.String("name", name))
			}

			m.Set(name, v)
		}
	}

	return writeValue(ctx, stdioFrom(ctx).Out, lang.MappingValue(m), format, f.Indent)
}
