package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatResult renders v on a single line in expression syntax.
//
// Scalars and containers are rendered so that evaluating the result yields an
// equal value. Callables and handles have no literal form and are rendered as
// "<callable>" and "<TypeName>".
func FormatResult(v Value) string {
	var sb strings.Builder

	_ = Format(&sb, v, 0)

	return sb.String()
}

// Format writes v in expression syntax to w.
//
// With indent 0 the output is a single line. Otherwise each container element
// is written on its own line, indented by indent spaces per level, and
// followed by a comma.
func Format(w io.Writer, v Value, indent int) error {
	return formatValue(w, v, indent, 0)
}

// FormatJSON writes the native form of v as JSON to w.
func FormatJSON(w io.Writer, v Value, indent int) error {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(v.Native()); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())

	return err
}

// FormatYAML writes the native form of v as YAML to w.
func FormatYAML(ctx context.Context, w io.Writer, v Value, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v.Native(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func formatValue(w io.Writer, v Value, indent, depth int) error {
	var err error

	switch d := v.data.(type) {
	case nil:
		_, err = io.WriteString(w, "null")

	case bool:
		_, err = io.WriteString(w, strconv.FormatBool(d))

	case int64:
		_, err = io.WriteString(w, strconv.FormatInt(d, 10))

	case float64:
		_, err = io.WriteString(w, formatFloatLiteral(d))

	case string:
		_, err = io.WriteString(w, quoteString(d))

	case []Value:
		err = formatContainer(w, '[', ']', len(d), indent, depth,
			func(i int) error {
				return formatValue(w, d[i], indent, depth+1)
			})

	case *Mapping:
		err = formatContainer(w, '{', '}', d.Len(), indent, depth,
			func(i int) error {
				if _, err := fmt.Fprint(w, formatKey(d.keys[i]), ": "); err != nil {
					return err
				}

				return formatValue(w, d.vals[i], indent, depth+1)
			})

	default:
		_, err = io.WriteString(w, v.String())
	}

	return err
}

// formatContainer writes the n elements of a sequence or mapping between open
// and end, calling elem to write each one.
func formatContainer(
	w io.Writer,
	open, end byte,
	n, indent, depth int,
	elem func(i int) error,
) error {
	if _, err := w.Write([]byte{open}); err != nil {
		return err
	}

	if n > 0 && indent > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	for i := range n {
		if indent > 0 {
			if _, err := io.WriteString(w, strings.Repeat(" ", (depth+1)*indent)); err != nil {
				return err
			}
		}

		if err := elem(i); err != nil {
			return err
		}

		switch {
		case indent > 0:
			// Always add comma for easier editing
			if _, err := fmt.Fprintln(w, ","); err != nil {
				return err
			}
		case i < n-1:
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
	}

	if n > 0 && indent > 0 {
		if _, err := io.WriteString(w, strings.Repeat(" ", depth*indent)); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte{end})

	return err
}

// formatFloatLiteral renders f so that it reads back as a float.
func formatFloatLiteral(f float64) string {
	s := formatFloat(f)
	if strings.ContainsAny(s, ".EIN") {
		return s
	}

	return s + ".0"
}

// formatKey renders a mapping key bare when it is an identifier or a decimal
// integer, and quoted otherwise.
func formatKey(k string) string {
	if isIdentifier(k) {
		return k
	}

	if _, err := strconv.ParseUint(k, 10, 64); err == nil {
		return k
	}

	return quoteString(k)
}

// quoteString renders s as a double-quoted literal.
func quoteString(s string) string {
	// Encoding a string cannot fail.
	b, _ := marshalJSON(s)

	return string(b)
}
