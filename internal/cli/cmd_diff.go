package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/calvinalkan/schema-merge/internal/fs"
	"github.com/calvinalkan/schema-merge/internal/output"
)

// DiffCmd returns the diff command.
func DiffCmd(g *globals) *Command {
	sf := newSourceFlags("diff")
	contextLines := sf.flags.IntP("context", "U", 3, "Lines of context around changes")
	noColor := sf.flags.Bool("no-color", false, "Disable colored output")

	return &Command{
		Flags: sf.flags,
		Usage: "diff [flags]",
		Short: "Show how a merge would change the output file",
		Long:  "Merge as usual but print a line diff against the current output file instead of writing it.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %s", ErrUnexpectedArg, args[0])
			}

			printer := output.Printer{
				Context: max(*contextLines, 0),
				Color:   !*noColor && output.ColorEnabled(g.stdout, g.env),
			}

			return execDiff(o, g, sf, printer)
		},
	}
}

func execDiff(o *IO, g *globals, sf *sourceFlags, printer output.Printer) error {
	m, err := runMerge(g, sf)
	if err != nil {
		return err
	}

	current, exists, err := output.NewWriter(fs.NewReal(), g.log).Current(m.cfg.OutputAbs)
	if err != nil {
		return err
	}

	oldName := m.cfg.Output
	if !exists {
		oldName = "/dev/null"
	}

	lines := output.Diff(current, m.result.Text)
	if !output.Changed(lines) {
		o.Println("No changes.")

		return nil
	}

	var buf strings.Builder

	err = printer.Print(&buf, oldName, m.cfg.Output, lines)
	if err != nil {
		return err
	}

	o.Printf("%s", buf.String())

	return nil
}
