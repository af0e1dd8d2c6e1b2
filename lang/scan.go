package lang

import (
	"fmt"
	"regexp"
	"strings"
)

// scanMode selects how [scan] treats each top-level delimiter match.
type scanMode uint8

const (
	// scanDrop consumes the delimiter and omits it from output.
	scanDrop scanMode = iota
	// scanKeep starts each new segment with the delimiter itself.
	scanKeep
	// scanUnary behaves like scanDrop, except a delimiter with no operand
	// before it is treated as a sign and kept with the segment.
	scanUnary
)

// scan splits text at each top-level occurrence of delim.
//
// An occurrence is top-level when it is outside of any quoted region and all
// of the round, square, and curly bracket depths are zero. Whitespace outside
// of quotes is dropped from the returned segments. A result with a single
// segment means delim never occurred at top level.
//
// Unbalanced brackets and unterminated quotes are reported as [ErrSyntax].
func scan(text, delim string, mode scanMode) ([]string, error) {
	var (
		segs    = make([]string, 0, 4)
		seg     strings.Builder
		quote   byte
		escaped bool
		prev    byte // last byte written outside of quotes, 0 at segment start

		round, square, curly int
	)

	for i := 0; i < len(text); i++ {
		char := text[i]

		if quote != 0 {
			seg.WriteByte(char)

			switch {
			case escaped:
				escaped = false
			case char == '\\':
				escaped = true
			case char == quote:
				quote, prev = 0, char
			}

			continue
		}

		switch char {
		case ' ', '\t', '\r', '\n':
			continue

		case '"', '\'', '`':
			if i == 0 || text[i-1] != '\\' {
				quote = char
			}

			seg.WriteByte(char)

			prev = char

			continue

		case ')':
			if round == 0 {
				return nil, ErrSyntax.Detail("unexpected `)`")
			}

		case ']':
			if square == 0 {
				return nil, ErrSyntax.Detail("unexpected `]`")
			}

		case '}':
			if curly == 0 {
				return nil, ErrSyntax.Detail("unexpected `}`")
			}
		}

		if round == 0 && square == 0 && curly == 0 &&
			strings.HasPrefix(text[i:], delim) &&
			(mode != scanUnary || hasOperand(prev, seg.String())) {
			segs = append(segs, seg.String())
			seg.Reset()

			prev = 0

			if mode != scanKeep {
				i += len(delim) - 1

				continue
			}
		}

		switch char {
		case '(':
			round++
		case ')':
			round--
		case '[':
			square++
		case ']':
			square--
		case '{':
			curly++
		case '}':
			curly--
		}

		seg.WriteByte(char)

		prev = char
	}

	switch {
	case quote != 0:
		return nil, ErrSyntax.Detail(fmt.Sprintf("expected closing `%c`", quote))
	case round > 0:
		return nil, ErrSyntax.Detail("round bracket not closed")
	case square > 0:
		return nil, ErrSyntax.Detail("square bracket not closed")
	case curly > 0:
		return nil, ErrSyntax.Detail("curly bracket not closed")
	}

	return append(segs, seg.String()), nil
}

// exponent matches a numeric literal that ends in an exponent marker, so
// that the sign following it belongs to the literal.
var exponent = regexp.MustCompile(`(?:^|[^\w$.])(?:\d+\.?\d*|\.\d+)[eE]$`)

// hasOperand reports whether a sign following prev is a binary operator.
// The sign is unary at the start of a segment, after another operator, and
// inside the exponent of a numeric literal.
func hasOperand(prev byte, seg string) bool {
	if prev == 0 || strings.IndexByte("+-*/%~<>=!&|?:,([{", prev) >= 0 {
		return false
	}

	if prev == 'e' || prev == 'E' {
		return !exponent.MatchString(seg)
	}

	return true
}

// enclosed reports whether text is entirely wrapped by one bracket pair that
// starts with open and ends with close, such as "(a+b)" but not "(a)(b)".
func enclosed(text string, open, close byte) bool {
	if len(text) < 2 || text[0] != open || text[len(text)-1] != close {
		return false
	}

	segs, err := scan(text, string(open), scanKeep)

	return err == nil && len(segs) == 2 && segs[0] == ""
}
