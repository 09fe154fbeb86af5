package merge

import (
	"strings"

	"go.uber.org/zap"
)

// ApplyReplaces applies replaces directives in order.
//
// Matching works like [Engine.ApplyRemoves], including the unbounded forward
// search. A matched line is overwritten with the replacement line as written
// in the directive: its original indentation and trailing content are lost.
// No other line changes and no compaction happens.
func (e *Engine) ApplyReplaces(text string, directives []Directive) (string, Stats) {
	var stats Stats

	for _, d := range directives {
		text = e.applyReplace(text, d, &stats)
	}

	return text, stats
}

func (e *Engine) applyReplace(text string, d Directive, stats *Stats) string {
	lines := strings.Split(text, "\n")
	tokens := MatchTokens(lines, e.kinds)

	header := findHeader(tokens, d.Target)

	for _, r := range d.Replacements {
		idx := -1
		if header >= 0 {
			idx = findField(tokens, r.Field, header)
		}

		if idx < 0 {
			stats.Missing = append(stats.Missing, MissingField{
				Kind: KindReplace, Target: d.Target, Field: r.Field,
				Line: d.Line, Offset: d.Offset,
			})
			e.log.Debug("replace field not found",
				zap.String("target", d.Target),
				zap.String("field", r.Field),
				zap.Bool("header_found", header >= 0),
			)

			continue
		}

		lines[idx] = r.Line
		stats.FieldsReplaced++

		e.log.Debug("replaced field",
			zap.String("target", d.Target),
			zap.String("field", r.Field),
			zap.Int("doc_line", idx+1),
		)
	}

	return strings.Join(lines, "\n")
}
