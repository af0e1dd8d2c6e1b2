package cmd

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/smpl/lang"
	"github.com/ardnew/smpl/log"
)

// stdinSource is the expression argument that reads expressions from stdin.
const stdinSource = "-"

// Output formats of evaluated values.
const (
	formatNative = "native"
	formatJSON   = "json"
	formatYAML   = "yaml"
)

// Eval evaluates expressions and prints each result.
type Eval struct {
	Format string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})"                        short:"f"`
	Indent int    `default:"0"                              help:"Indent width of containers; 0 prints one line" short:"i"`

	Exprs []string `arg:"" help:"Expressions to evaluate, or '-' to read one per line from stdin" name:"expr" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	exprs := e.Exprs
	if len(exprs) == 0 {
		exprs = []string{stdinSource}
	}

	stdio := stdioFrom(ctx)

	for _, src := range exprs {
		if src != stdinSource {
			if err := e.eval(ctx, s.ev, stdio.Out, src); err != nil {
				return err
			}

			continue
		}

		err := readLines(stdio.In, func(line string) error {
			return e.eval(ctx, s.ev, stdio.Out, line)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *Eval) eval(
	ctx context.Context,
	ev *lang.Evaluator,
	w io.Writer,
	src string,
) error {
	v, err := ev.Evaluate(ctx, src)
	if err != nil {
		return ErrEvaluate.Wrap(err).With(slog.String("expr", src))
	}

	log.TraceContext(ctx, "evaluated",
		slog.String("expr", src),
		slog.String("kind", v.Kind().String()),
	)

	return writeValue(ctx, w, v, e.Format, e.Indent)
}

// readLines calls fn with each non-blank line of r.
func readLines(r io.Reader, fn func(string) error) error {
	ra := readahead.NewReader(r)
	defer ra.Close()

	scan := bufio.NewScanner(ra)
	scan.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1<<20)

	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}

		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scan.Err(); err != nil {
		return ErrReadInput.Wrap(err)
	}

	return nil
}

// writeValue writes v to w in format, terminated by a newline.
func writeValue(
	ctx context.Context,
	w io.Writer,
	v lang.Value,
	format string,
	indent int,
) error {
	var (
		buf bytes.Buffer
		err error
	)

	switch format {
	case formatJSON:
		err = lang.FormatJSON(&buf, v, indent)
	case formatYAML:
		err = lang.FormatYAML(ctx, &buf, v, indent)
	default:
		err = lang.Format(&buf, v, indent)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", format))
	}

	if !bytes.HasSuffix(buf.Bytes(), []byte{'\n'}) {
		buf.WriteByte('\n')
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
