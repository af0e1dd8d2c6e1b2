package repl

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/smpl/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the member-access dot, quotes, and operator or
// punctuation characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '~',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word starting
// at wordStart. For input "x + server.http.ho" with the word "ho", the parent
// path is "server.http". Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimSuffix(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	chain := prefix[pos:]
	if chain == "" || strings.HasPrefix(chain, ".") || strings.Contains(chain, "..") {
		return ""
	}

	return chain
}

// enumerable is a handle that can list its members.
type enumerable interface {
	Properties() []string
	Methods() []string
}

// candidate is a completion name and whether it names a callable.
type candidate struct {
	name     string
	callable bool
}

// childCandidates returns the completions for members of parent. An empty
// parent yields every binding of ev. Otherwise parent is evaluated and its
// mapping keys or handle members are returned.
func childCandidates(
	ctx context.Context,
	ev *lang.Evaluator,
	parent string,
) []candidate {
	if parent == "" {
		return members(lang.MappingValue(ev.Bindings()))
	}

	v, err := ev.Evaluate(ctx, parent)
	if err != nil {
		return nil
	}

	return members(v)
}

func members(v lang.Value) []candidate {
	var out []candidate

	if m, ok := v.AsMapping(); ok {
		for name, e := range m.All() {
			out = append(out, candidate{name, e.Kind() == lang.KindCallable})
		}

		return out
	}

	h, _ := v.AsHandle()
	if e, ok := h.(enumerable); ok {
		for _, name := range e.Properties() {
			out = append(out, candidate{name: name})
		}

		for _, name := range e.Methods() {
			out = append(out, candidate{name, true})
		}
	}

	return out
}

// candidateSource adapts a candidate list to [fuzzy.Source].
type candidateSource []candidate

func (s candidateSource) String(i int) string { return s[i].name }

func (s candidateSource) Len() int { return len(s) }

// computeMatches calculates the fuzzy match results for the word at the cursor.
// When the word is empty at the top level it returns no matches, so the hint
// line stays visible. After a dot every member is returned unfiltered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []candidate,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		for _, c := range ctrlCommands {
			candidates = append(candidates, candidate{name: c})
		}
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.ctx(), m.ev, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c.name, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.FindFrom(word, candidateSource(candidates)), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. Matched characters are highlighted, and the selected
// candidate uses the selected style while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	candidates []candidate,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		callable := match.Index < len(candidates) && candidates[match.Index].callable
		rendered := renderCandidate(match, tabActive && i == suggIdx, callable)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callables are displayed with a "()" suffix that is not part of
// the completion.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// previewWidth is the maximum number of runes shown by preview.
const previewWidth = 40

// preview returns a one-line rendering of v, truncated to previewWidth runes.
func preview(v lang.Value) string {
	s := lang.FormatResult(v)
	if utf8.RuneCountInString(s) <= previewWidth {
		return s
	}

	r := []rune(s)

	return string(r[:previewWidth-3]) + "..."
}
