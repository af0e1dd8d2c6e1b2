package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/smpl/ext"
	"github.com/ardnew/smpl/lang"
	"github.com/ardnew/smpl/log"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Paths holds the runtime file locations.
type Paths struct {
	Config string // configuration file
	Cache  string // cache directory
}

type pathsKey struct{}

// WithPaths returns a new context.Context containing p.
func WithPaths(ctx context.Context, p Paths) context.Context {
	return context.WithValue(ctx, pathsKey{}, p)
}

func pathsFrom(ctx context.Context) Paths {
	p, _ := ctx.Value(pathsKey{}).(Paths)

	return p
}

// Stdio holds the streams used by commands. Nil members default to the
// process streams.
type Stdio struct {
	In  io.Reader
	Out io.Writer
}

type stdioKey struct{}

// WithStdio returns a new context.Context containing s.
func WithStdio(ctx context.Context, s Stdio) context.Context {
	return context.WithValue(ctx, stdioKey{}, s)
}

func stdioFrom(ctx context.Context) Stdio {
	s, _ := ctx.Value(stdioKey{}).(Stdio)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	return s
}

// Setup describes how the evaluator shared by commands is built.
type Setup struct {
	// Bindings are files read with [lang.LoadBindings], in order. Later files
	// override earlier ones.
	Bindings []string
	// Defines are "name=expr" pairs evaluated in order after the files are
	// loaded. Each may refer to bindings defined before it.
	Defines []string
	// NoExt omits the [ext] bindings.
	NoExt bool
}

type setupKey struct{}

// WithSetup returns a new context.Context containing s.
func WithSetup(ctx context.Context, s Setup) context.Context {
	return context.WithValue(ctx, setupKey{}, s)
}

func setupFrom(ctx context.Context) Setup {
	s, _ := ctx.Value(setupKey{}).(Setup)

	return s
}

// session is an evaluator together with the bindings the user supplied.
type session struct {
	ev   *lang.Evaluator
	host *lang.Mapping
}

// newSession builds the evaluator described by the [Setup] in ctx.
//
// Extension bindings are bound first, so host bindings of the same name take
// precedence.
func newSession(ctx context.Context) (*session, error) {
	setup := setupFrom(ctx)

	s := &session{
		ev:   lang.New(lang.WithLogger(log.Default())),
		host: lang.NewMapping(),
	}

	if !setup.NoExt {
		ext.Bind(s.ev)
	}

	for _, path := range uniquePaths(setup.Bindings) {
		m, err := lang.LoadBindings(path)
		if err != nil {
			return nil, ErrLoadBindings.Wrap(err).With(slog.String("file", path))
		}

		log.DebugContext(ctx, "loaded bindings",
			slog.String("file", path),
			slog.Int("count", m.Len()),
		)

		s.bind(m)
	}

	for _, def := range setup.Defines {
		name, src, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, ErrDefine.With(slog.String("define", def))
		}

		v, err := s.ev.Evaluate(ctx, src)
		if err != nil {
			return nil, ErrEvaluate.Wrap(err).With(
				slog.String("define", name),
				slog.String("expr", src),
			)
		}

		s.bind(lang.MappingOf(lang.Pair{Key: name, Value: v}))
	}

	return s, nil
}

func (s *session) bind(m *lang.Mapping) {
	for name, v := range m.All() {
		s.ev.Set(name, v)
		s.host.Set(name, v)
	}
}

// uniquePaths returns paths with duplicates removed, keeping the first
// occurrence. Paths naming the same file through symlinks or different
// relative forms are duplicates. Paths that cannot be resolved are kept so
// that loading them reports the error.
func uniquePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make([]os.FileInfo, 0, len(paths))

next:
	for _, path := range paths {
		info, err := stat(path)
		if err != nil {
			out = append(out, path)

			continue
		}

		for _, s := range seen {
			if os.SameFile(s, info) {
				continue next
			}
		}

		seen = append(seen, info)
		out = append(out, path)
	}

	return out
}

func stat(path string) (os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}

	return os.Stat(resolved)
}
