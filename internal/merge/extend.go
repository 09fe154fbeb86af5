package merge

import (
	"strings"

	"go.uber.org/zap"
)

// ApplyExtends applies extends directives in order, each to the output of the
// previous one.
//
// For each directive the first occurrence of its target text is located, and
// the body is inserted immediately before the nearest "}" after it. The search
// is textual: it is not brace-depth aware, and "model User" also matches
// "model UserProfile" if that comes first.
//
// A target that cannot be located returns a [*DirectiveError] wrapping
// [ErrTargetBlockNotFound].
func (e *Engine) ApplyExtends(text string, directives []Directive) (string, error) {
	for _, d := range directives {
		at, ok := closingBrace(text, d.Target)
		if !ok {
			return "", &DirectiveError{
				Err:    ErrTargetBlockNotFound,
				Line:   d.Line,
				Offset: d.Offset,
				Detail: "extends " + d.Target,
			}
		}

		text = text[:at] + d.Body + text[at:]

		e.log.Debug("extended block",
			zap.String("target", d.Target),
			zap.Int("line", d.Line),
			zap.Int("offset", at),
		)
	}

	return text, nil
}

// closingBrace returns the offset of the first "}" following the first
// occurrence of target.
func closingBrace(text, target string) (int, bool) {
	start := strings.Index(text, target)
	if start < 0 {
		return 0, false
	}

	after := start + len(target)

	rel := strings.IndexByte(text[after:], '}')
	if rel < 0 {
		return 0, false
	}

	return after + rel, true
}
