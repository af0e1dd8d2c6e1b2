package lang

import (
	"log/slog"
	"strconv"
)

// spread is the prefix of a list item whose elements are inlined.
const spread = "..."

// keyMode selects how the key of a "key: value" list item is interpreted.
type keyMode uint8

const (
	// keyEval evaluates the key as an expression (sequence literals).
	keyEval keyMode = iota
	// keyLiteral takes the key text verbatim, optionally quoted (mapping
	// literals and named call arguments).
	keyLiteral
)

// listItem is one evaluated entry of a comma-separated list.
type listItem struct {
	key   string
	keyed bool
	value Value
}

// list evaluates the comma-separated items of text in order.
//
// A repeated key replaces the earlier value but keeps its position.
func (c *evalContext) list(text string, mode keyMode, depth int) ([]listItem, error) {
	segs, err := scan(text, ",", scanDrop)
	if err != nil {
		return nil, err
	}

	if segs[len(segs)-1] == "" {
		segs = segs[:len(segs)-1]
	}

	var (
		items = make([]listItem, 0, len(segs))
		keyAt = make(map[string]int)
	)

	for _, seg := range segs {
		if seg == "" {
			return nil, ErrSyntax.Detail("unexpected `,`")
		}

		if len(seg) > len(spread) && seg[:len(spread)] == spread {
			vals, err := c.unpack(seg, depth)
			if err != nil {
				return nil, err
			}

			for _, v := range vals {
				items = append(items, listItem{value: v})
			}

			continue
		}

		key, expr, keyed, err := c.splitKey(seg, mode, depth)
		if err != nil {
			return nil, err
		}

		v, err := c.evaluate(expr, depth)
		if err != nil {
			return nil, err
		}

		if !keyed {
			items = append(items, listItem{value: v})

			continue
		}

		if i, ok := keyAt[key]; ok {
			items[i].value = v

			continue
		}

		keyAt[key] = len(items)
		items = append(items, listItem{key: key, keyed: true, value: v})
	}

	return items, nil
}

// unpack evaluates a spread item and returns the elements of its container.
func (c *evalContext) unpack(seg string, depth int) ([]Value, error) {
	v, err := c.evaluate(seg[len(spread):], depth)
	if err != nil {
		return nil, err
	}

	switch d := v.data.(type) {
	case []Value:
		return d, nil
	case *Mapping:
		return d.Values(), nil
	}

	return nil, ErrSpread.Detail("can't unpack `" + seg + "`, not a sequence or mapping").
		With(slog.String("kind", v.Kind().String()))
}

// splitKey separates an optional "key:" prefix from a list item.
//
// An item holding a top-level "?" is a ternary expression rather than a keyed
// entry, so its ":" belongs to the ternary.
func (c *evalContext) splitKey(
	seg string,
	mode keyMode,
	depth int,
) (key, expr string, keyed bool, err error) {
	parts, err := scan(seg, ":", scanDrop)
	if err != nil {
		return "", "", false, err
	}

	switch len(parts) {
	case 1:
		return "", seg, false, nil
	case 2:
	default:
		return "", "", false, ErrSyntax.Detail("unexpected `:` in `" + seg + "`")
	}

	if q, err := scan(parts[0], "?", scanDrop); err != nil || len(q) > 1 {
		return "", seg, false, nil
	}

	if parts[0] == "" || parts[1] == "" {
		return "", "", false, ErrSyntax.Detail("unexpected `:` in `" + seg + "`")
	}

	var k Value

	switch {
	case mode == keyEval:
		k, err = c.evaluate(parts[0], depth)
	case parts[0][0] == '"':
		k, err = decodeString(parts[0])
	case parts[0][0] == '\'' || parts[0][0] == '`':
		k, err = quoted(parts[0])
	default:
		k = String(parts[0])
	}

	if err != nil {
		return "", "", false, err
	}

	s, ok := k.AsString()
	if !ok {
		return "", "", false, ErrInvalidKey.
			Detail("key `" + parts[0] + "` is " + k.Kind().String() + ", not string").
			With(slog.String("key", parts[0]))
	}

	return s, parts[1], true, nil
}

// sequence evaluates the items of a "[...]" literal. Any keyed item turns the
// result into a mapping.
func (c *evalContext) sequence(text string, depth int) (Value, error) {
	items, err := c.list(text, keyEval, depth)
	if err != nil {
		return Null(), err
	}

	for _, it := range items {
		if it.keyed {
			return MappingValue(collect(items)), nil
		}
	}

	vals := make([]Value, len(items))
	for i, it := range items {
		vals[i] = it.value
	}

	return Sequence(vals...), nil
}

// mapping evaluates the items of a "{...}" literal.
func (c *evalContext) mapping(text string, depth int) (Value, error) {
	items, err := c.list(text, keyLiteral, depth)
	if err != nil {
		return Null(), err
	}

	return MappingValue(collect(items)), nil
}

// arguments evaluates the items of a call's parameter list. Keys are labels
// of named arguments and are never evaluated.
func (c *evalContext) arguments(text string, depth int) (Args, error) {
	items, err := c.list(text, keyLiteral, depth)
	if err != nil {
		return Args{}, err
	}

	var args Args

	for _, it := range items {
		if !it.keyed {
			args.Values = append(args.Values, it.value)

			continue
		}

		if args.Named == nil {
			args.Named = NewMapping()
		}

		args.Named.Set(it.key, it.value)
	}

	return args, nil
}

// collect builds a mapping from items. Positional items take the next
// integer key after the largest integer key used so far.
func collect(items []listItem) *Mapping {
	var (
		m    = newMapping(len(items))
		next int64
	)

	for _, it := range items {
		if it.keyed {
			m.Set(it.key, it.value)

			if i, err := strconv.ParseInt(it.key, 10, 64); err == nil && i >= next {
				next = i + 1
			}

			continue
		}

		m.Set(strconv.FormatInt(next, 10), it.value)
		next++
	}

	return m
}
