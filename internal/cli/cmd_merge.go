package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/schema-merge/internal/fs"
	"github.com/calvinalkan/schema-merge/internal/output"
)

// MergeCmd returns the merge command, which also runs when no command is
// given.
func MergeCmd(g *globals) *Command {
	sf := newSourceFlags("merge")
	toStdout := sf.flags.Bool("stdout", false, "Print the merged schema instead of writing it")
	check := sf.flags.Bool("check", false, "Exit 1 if the output file is out of date; write nothing")

	return &Command{
		Flags: sf.flags,
		Usage: "merge [flags]",
		Short: "Merge base and decorators into the output file",
		Long: `Merge base schema files with decorator files and write the result.

Decorators hold directives applied to the base in a fixed order:
  extends <kind> <name> { ... }    append lines to the end of a block
  remove <kind> <name> { ... }     delete fields by name
  replaces <kind> <name> { ... }   overwrite fields by name

The output directory must exist. The file is replaced atomically.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %s", ErrUnexpectedArg, args[0])
			}

			return execMerge(ctx, o, g, sf, *toStdout, *check)
		},
	}
}

func execMerge(ctx context.Context, o *IO, g *globals, sf *sourceFlags, toStdout, check bool) error {
	m, err := runMerge(g, sf)
	if err != nil {
		return err
	}

	if toStdout {
		o.Printf("%s", m.result.Text)

		return nil
	}

	writer := output.NewWriter(fs.NewReal(), g.log)
	display := m.cfg.Output

	if check {
		current, _, err := writer.Current(m.cfg.OutputAbs)
		if err != nil {
			return err
		}

		if current != m.result.Text {
			o.Warn(display+" is out of date", "run "+binName+" to regenerate it")

			return nil
		}

		o.Println(display, "is up to date.")

		return nil
	}

	if cause := context.Cause(ctx); cause != nil {
		return cause
	}

	err = writer.Write(m.cfg.OutputAbs, m.result.Text)
	if err != nil {
		return err
	}

	o.Printf("File %s created.\n", display)

	return nil
}
