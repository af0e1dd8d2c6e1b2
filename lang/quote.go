package lang

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// quoted decodes a string literal delimited by single quotes or backticks.
//
// The literal is rewritten as a double-quoted literal first: an escaped
// delimiter becomes the bare delimiter, a bare '"' is escaped, and every
// other escape sequence is kept for [decodeString].
func quoted(text string) (Value, error) {
	q := text[0]

	if len(text) < 2 || text[len(text)-1] != q {
		return Null(), unterminated(text)
	}

	var sb strings.Builder

	sb.Grow(len(text) + 2)
	sb.WriteByte('"')

	inner := text[1 : len(text)-1]

	for i := 0; i < len(inner); i++ {
		switch ch := inner[i]; {
		case ch == '\\':
			if i+1 == len(inner) {
				return Null(), unterminated(text)
			}

			i++

			switch next := inner[i]; next {
			case q:
				sb.WriteByte(q)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(next)
			}

		case ch == q:
			return Null(), unterminated(text)

		case ch == '"':
			sb.WriteString(`\"`)

		default:
			sb.WriteByte(ch)
		}
	}

	sb.WriteByte('"')

	return decodeString(sb.String())
}

// decodeString decodes a double-quoted literal using the JSON string escapes.
// Raw control characters in the literal are accepted as themselves.
func decodeString(text string) (Value, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return Null(), unterminated(text)
	}

	var s string
	if err := json.Unmarshal([]byte(escapeControl(text)), &s); err != nil {
		return Null(), unterminated(text)
	}

	return String(s), nil
}

// escapeControl replaces the raw control characters that JSON rejects inside
// a string with their escape sequences.
func escapeControl(text string) string {
	if !strings.ContainsFunc(text, func(r rune) bool { return r < 0x20 }) {
		return text
	}

	var sb strings.Builder

	sb.Grow(len(text) + 8)

	for _, r := range text {
		switch {
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20:
			sb.WriteString(`\u00`)
			sb.WriteByte("0123456789abcdef"[r>>4])
			sb.WriteByte("0123456789abcdef"[r&0xf])
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func unterminated(text string) *Error {
	return ErrUnterminatedString.Detail(quoteShort(text)).
		With(slog.String("literal", text))
}
