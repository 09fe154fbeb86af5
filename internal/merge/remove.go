package merge

import (
	"strings"

	"go.uber.org/zap"
)

// ApplyRemoves applies remove directives in order.
//
// For each directive the lines are re-indexed with [MatchTokens], the first
// header starting with the target is found, and each field is searched from
// that header to the end of the document. Matched lines are dropped, together
// with every blank line, before the next directive runs. A trailing newline on
// the input is kept.
//
// Fields that match nothing, or a target that matches no header, are recorded
// in [Stats.Missing] and otherwise ignored.
func (e *Engine) ApplyRemoves(text string, directives []Directive) (string, Stats) {
	var stats Stats

	for _, d := range directives {
		text = e.applyRemove(text, d, &stats)
	}

	return text, stats
}

func (e *Engine) applyRemove(text string, d Directive, stats *Stats) string {
	lines := strings.Split(text, "\n")
	tokens := MatchTokens(lines, e.kinds)
	marked := make([]bool, len(lines))

	header := findHeader(tokens, d.Target)

	for _, field := range d.Fields {
		idx := -1
		if header >= 0 {
			idx = findField(tokens, field, header)
		}

		if idx < 0 {
			stats.Missing = append(stats.Missing, MissingField{
				Kind: KindRemove, Target: d.Target, Field: field,
				Line: d.Line, Offset: d.Offset,
			})
			e.log.Debug("remove field not found",
				zap.String("target", d.Target),
				zap.String("field", field),
				zap.Bool("header_found", header >= 0),
			)

			continue
		}

		if marked[idx] {
			continue
		}

		marked[idx] = true
		stats.FieldsRemoved++

		e.log.Debug("removed field",
			zap.String("target", d.Target),
			zap.String("field", field),
			zap.Int("doc_line", idx+1),
		)
	}

	return compact(text, lines, marked)
}

// compact joins lines, dropping marked and blank ones.
func compact(text string, lines []string, marked []bool) string {
	kept := make([]string, 0, len(lines))

	for i, line := range lines {
		if marked[i] || strings.TrimSpace(line) == "" {
			continue
		}

		kept = append(kept, line)
	}

	out := strings.Join(kept, "\n")
	if out != "" && strings.HasSuffix(text, "\n") {
		out += "\n"
	}

	return out
}
