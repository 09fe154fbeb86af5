package merge

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a directive keyword.
type Kind string

// Directive kinds, spelled as they appear in decorator text.
const (
	KindExtend  Kind = "extends"
	KindRemove  Kind = "remove"
	KindReplace Kind = "replaces"
)

// Directive is one structural edit extracted from decorator text.
type Directive struct {
	Kind Kind

	// Target is the block identifier, "<kind> <name>" (e.g. "model User").
	Target string

	// Body is the raw text between the braces. Extends inserts it verbatim.
	Body string

	// Fields are the field tokens a remove directive deletes, in order.
	Fields []string

	// Replacements are the lines a replaces directive writes, in order.
	Replacements []Replacement

	// Line is the 1-based line of the directive keyword in the raw input.
	Line int

	// Offset is the byte offset of the directive keyword in the raw input.
	Offset int
}

// Replacement overwrites the first line whose match token equals Field.
type Replacement struct {
	Field string
	// Line is the trimmed replacement line, written without indentation.
	Line string
}

// Directives holds extracted directives grouped by kind. Each list is in the
// order its directives appear in the raw text.
type Directives struct {
	Extends  []Directive
	Removes  []Directive
	Replaces []Directive
}

// Len returns the total number of directives.
func (d Directives) Len() int {
	return len(d.Extends) + len(d.Removes) + len(d.Replaces)
}

var (
	// directivePattern matches a complete directive. The body runs
	// non-greedily to the nearest "}", across lines. The keyword must also sit
	// at a word boundary, which RE2 cannot express without consuming the
	// preceding byte; see [findDirectives].
	directivePattern = regexp.MustCompile(
		`(extends|remove|replaces) ([^\s{}]+) ([^\s{}]+)[ \t]*\{([^}]*)\}`)

	// keywordPattern matches a keyword used as a word: followed by
	// whitespace or the end of the text.
	keywordPattern = regexp.MustCompile(`(?:extends|remove|replaces)(?:[ \t\r\n]|$)`)
)

// Extract splits raw text into the base document and its directives.
//
// Every directive span is cut out of the returned text; surrounding text,
// including the newline that followed a directive, is kept as is. Text without
// directives is returned unchanged with empty lists, so extracting an already
// cleaned document is a no-op.
//
// Directives are recognised wherever the keyword starts a word: at a line
// start, after indentation, or glued to the "}" of a source that had no
// trailing newline. A keyword word that does not start a well-formed directive
// yields a [*DirectiveError] wrapping [ErrMalformedDirective], unless it sits
// in a "//" comment.
func Extract(text string) (string, Directives, error) {
	matches := findDirectives(text)

	err := checkKeywords(text, matches)
	if err != nil {
		return "", Directives{}, err
	}

	if len(matches) == 0 {
		return text, Directives{}, nil
	}

	var (
		directives Directives
		cleaned    strings.Builder
		last       int
	)

	cleaned.Grow(len(text))

	for _, m := range matches {
		cleaned.WriteString(text[last:m[0]])
		last = m[1]

		d := parseDirective(
			Kind(text[m[2]:m[3]]),
			text[m[4]:m[5]]+" "+text[m[6]:m[7]],
			text[m[8]:m[9]],
		)
		d.Line = lineOf(text, m[0])
		d.Offset = m[0]

		switch d.Kind {
		case KindExtend:
			directives.Extends = append(directives.Extends, d)
		case KindRemove:
			directives.Removes = append(directives.Removes, d)
		case KindReplace:
			directives.Replaces = append(directives.Replaces, d)
		}
	}

	cleaned.WriteString(text[last:])

	return cleaned.String(), directives, nil
}

func parseDirective(kind Kind, target, body string) Directive {
	d := Directive{Kind: kind, Target: target, Body: body}

	switch kind {
	case KindExtend:
		// Body is inserted verbatim.
	case KindRemove:
		for _, line := range bodyLines(body) {
			d.Fields = append(d.Fields, fieldToken(line))
		}
	case KindReplace:
		for _, line := range bodyLines(body) {
			d.Replacements = append(d.Replacements, Replacement{
				Field: fieldToken(line),
				Line:  line,
			})
		}
	}

	return d
}

// bodyLines returns the trimmed, non-blank lines of a directive body.
func bodyLines(body string) []string {
	var lines []string

	for line := range strings.SplitSeq(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		lines = append(lines, trimmed)
	}

	return lines
}

// findDirectives returns submatch indexes of every directive whose keyword
// starts a word, in text order.
func findDirectives(text string) [][]int {
	var matches [][]int

	for pos := 0; pos < len(text); {
		m := directivePattern.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}

		for i := range m {
			if m[i] >= 0 {
				m[i] += pos
			}
		}

		if !wordStart(text, m[0]) {
			pos = m[0] + 1

			continue
		}

		matches = append(matches, m)
		pos = m[1]
	}

	return matches
}

// checkKeywords reports the first keyword word not covered by a directive
// match. Keywords inside "//" comments are prose.
func checkKeywords(text string, matches [][]int) error {
	for _, kw := range keywordPattern.FindAllStringIndex(text, -1) {
		pos := kw[0]

		if !wordStart(text, pos) || covered(pos, matches) || inComment(text, pos) {
			continue
		}

		lineText, _, _ := strings.Cut(text[pos:], "\n")

		return &DirectiveError{
			Err:    ErrMalformedDirective,
			Line:   lineOf(text, pos),
			Offset: pos,
			Detail: strconv.Quote(strings.TrimRight(lineText, "\r")),
		}
	}

	return nil
}

func wordStart(text string, pos int) bool {
	return pos == 0 || !isWordByte(text[pos-1])
}

// isWordByte matches RE2's \w.
func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func inComment(text string, pos int) bool {
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1

	return strings.Contains(text[lineStart:pos], "//")
}

func covered(pos int, matches [][]int) bool {
	for _, m := range matches {
		if pos >= m[0] && pos < m[1] {
			return true
		}
	}

	return false
}

func lineOf(text string, pos int) int {
	return strings.Count(text[:pos], "\n") + 1
}
