package merge

import "strings"

// DefaultBlockKinds are the block keywords every [Engine] recognises.
// Extra kinds can be added with [WithBlockKinds].
var DefaultBlockKinds = []string{"model", "generator", "datasource"}

// MatchTokens returns one match token per line.
//
// Leading whitespace is ignored. A line that starts with one of kinds followed
// by whitespace (a block header) keeps the whole line, minus trailing
// whitespace. Any other line is reduced to its text before the first space or
// tab; a line without whitespace is kept whole, so "}" and "@@id([a, b])" are
// their own tokens.
func MatchTokens(lines []string, kinds []string) []string {
	tokens := make([]string, len(lines))

	for i, line := range lines {
		tokens[i] = matchToken(line, kinds)
	}

	return tokens
}

func matchToken(line string, kinds []string) string {
	trimmed := strings.TrimLeft(line, " \t")

	if isHeader(trimmed, kinds) {
		return strings.TrimRight(trimmed, " \t\r")
	}

	return fieldToken(trimmed)
}

// fieldToken returns s up to its first space or tab.
func fieldToken(s string) string {
	if idx := strings.IndexAny(s, " \t"); idx >= 0 {
		return s[:idx]
	}

	return strings.TrimRight(s, "\r")
}

func isHeader(trimmed string, kinds []string) bool {
	for _, kind := range kinds {
		rest, ok := strings.CutPrefix(trimmed, kind)
		if !ok {
			continue
		}

		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return true
		}
	}

	return false
}

// findHeader returns the index of the first token starting with target, or -1.
func findHeader(tokens []string, target string) int {
	for i, tok := range tokens {
		if strings.HasPrefix(tok, target) {
			return i
		}
	}

	return -1
}

// findField returns the index of the first token equal to field at or after
// from, or -1. The search runs to the end of the document.
func findField(tokens []string, field string, from int) int {
	for i := from; i < len(tokens); i++ {
		if tokens[i] == field {
			return i
		}
	}

	return -1
}
