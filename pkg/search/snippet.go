package search

import "strings"

// snippetContext is the number of characters of surrounding text kept on
// each side of the matched term.
const snippetContext = 30

// Snippet builds the human-review excerpt for a match: up to 30 characters
// of context on each side, the term wrapped in square brackets, and an
// ellipsis on either end when context was cut off. idx is the byte offset of
// the match within text; windows are measured in runes so multibyte text
// never splits mid-character.
func Snippet(text, term string, idx int) string {
	before := []rune(text[:idx])
	after := []rune(text[idx+len(term):])

	var b strings.Builder
	if len(before) > snippetContext {
		b.WriteString("…")
		before = before[len(before)-snippetContext:]
	}
	b.WriteString(string(before))
	b.WriteString("[")
	b.WriteString(term)
	b.WriteString("]")
	if len(after) > snippetContext {
		b.WriteString(string(after[:snippetContext]))
		b.WriteString("…")
	} else {
		b.WriteString(string(after))
	}
	return b.String()
}
