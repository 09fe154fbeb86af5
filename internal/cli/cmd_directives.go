package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/calvinalkan/schema-merge/internal/merge"
)

// DirectivesCmd returns the directives command.
func DirectivesCmd(g *globals) *Command {
	sf := newSourceFlags("directives")

	return &Command{
		Flags: sf.flags,
		Usage: "directives [flags]",
		Short: "List decorator directives and fields they miss",
		Long: `Print every directive found in the inputs, in the order it is applied:
file:line, kind, target and entry count. Remove and replace entries that
match no line in the merged document are listed after them.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %s", ErrUnexpectedArg, args[0])
			}

			return execDirectives(o, g, sf)
		},
	}
}

func execDirectives(o *IO, g *globals, sf *sourceFlags) error {
	m, err := runMerge(g, sf)
	if err != nil {
		return err
	}

	ds := m.result.Directives
	if ds.Len() == 0 {
		o.Println("No directives.")

		return nil
	}

	for _, list := range [][]merge.Directive{ds.Extends, ds.Removes, ds.Replaces} {
		for _, d := range list {
			o.Printf("%s\t%s\t%s\t%d\n", locate(m.cfg, m.input, d.Offset), d.Kind, d.Target, entries(d))
		}
	}

	for _, miss := range m.result.Stats.Missing {
		o.Printf("missing\t%s\t%s\t%s (%s)\n", miss.Kind, miss.Target, miss.Field, locate(m.cfg, m.input, miss.Offset))
	}

	return nil
}

// entries is the number of body entries a directive applies.
func entries(d merge.Directive) int {
	switch d.Kind {
	case merge.KindRemove:
		return len(d.Fields)
	case merge.KindReplace:
		return len(d.Replacements)
	default:
		return countLines(d.Body)
	}
}

func countLines(body string) int {
	n := 0

	for line := range strings.Lines(body) {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}

	return n
}
