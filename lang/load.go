package lang

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
)

// Binding file formats accepted by [ReadBindings].
const (
	FormatYAMLName = "yaml"
	FormatJSONName = "json"
	FormatTOMLName = "toml"
)

// BindingsFormat returns the binding file format implied by the extension of
// path. Unknown extensions are read as YAML, which also accepts JSON.
func BindingsFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSONName
	case ".toml":
		return FormatTOMLName
	default:
		return FormatYAMLName
	}
}

// LoadBindings reads the bindings file at path. The file format is chosen by
// [BindingsFormat].
func LoadBindings(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	m, err := ReadBindings(f, BindingsFormat(path))
	if err != nil {
		return nil, WrapError(err).With(slog.String("path", path))
	}

	return m, nil
}

// ReadBindings decodes a document of the given format from r. The document
// must be a mapping; its keys become binding names in document order.
func ReadBindings(r io.Reader, format string) (*Mapping, error) {
	// Wrap reader with async read-ahead.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return NewMapping(), nil
	}

	var doc any

	switch format {
	case FormatTOMLName:
		doc, err = decodeTOML(data)
	case FormatJSONName, FormatYAMLName:
		// YAML is a superset of JSON, and the ordered decoder keeps key order
		// for both.
		err = yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap())
	default:
		return nil, ErrArgument.Detail("unknown bindings format `" + format + "`")
	}

	if err != nil {
		return nil, ErrReadInput.Detail(format).Wrap(err)
	}

	if doc == nil {
		return NewMapping(), nil
	}

	v, err := FromNative(doc)
	if err != nil {
		return nil, err
	}

	m, ok := v.AsMapping()
	if !ok {
		return nil, ErrInvalidValueType.
			Detail("bindings document is " + v.Kind().String() + ", not mapping")
	}

	return m, nil
}

// decodeTOML decodes a TOML document, keeping the order of its top-level
// keys. Nested tables are ordered by key.
func decodeTOML(data []byte) (any, error) {
	var raw map[string]any

	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, err
	}

	doc := make(yaml.MapSlice, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, key := range md.Keys() {
		name := key[0]
		if seen[name] {
			continue
		}

		seen[name] = true
		doc = append(doc, yaml.MapItem{Key: name, Value: raw[name]})
	}

	return doc, nil
}
