package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op classifies a diff line.
type Op int

// Diff line operations.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// Line is one line of a line-level diff, without its newline.
type Line struct {
	Op   Op
	Text string
	// Old and New are 1-based line numbers, 0 where the line does not exist
	// on that side.
	Old, New int
}

// Diff computes a line-level diff turning oldText into newText.
func Diff(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var (
		lines    []Line
		old, neu int
	)

	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				old++
				neu++
				lines = append(lines, Line{Op: OpEqual, Text: text, Old: old, New: neu})
			case diffmatchpatch.DiffDelete:
				old++
				lines = append(lines, Line{Op: OpDelete, Text: text, Old: old})
			case diffmatchpatch.DiffInsert:
				neu++
				lines = append(lines, Line{Op: OpInsert, Text: text, New: neu})
			}
		}
	}

	return lines
}

// Changed reports whether lines contain any insertion or deletion.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != OpEqual {
			return true
		}
	}

	return false
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Printer renders diffs in a unified-like layout: "@@ -a +b @@" hunk headers,
// then "-", "+" or " " prefixed lines with up to Context lines around changes.
type Printer struct {
	Context int
	Color   bool
}

// Print writes the hunks of lines to w. Nothing is written when lines has no
// changes.
func (p Printer) Print(w io.Writer, oldName, newName string, lines []Line) error {
	if !Changed(lines) {
		return nil
	}

	header := p.paint(color.Bold)
	hunk := p.paint(color.FgCyan)
	add := p.paint(color.FgGreen)
	del := p.paint(color.FgRed)

	if _, err := header.Fprintf(w, "--- %s\n+++ %s\n", oldName, newName); err != nil {
		return err
	}

	for _, h := range hunks(lines, p.Context) {
		if _, err := hunk.Fprintf(w, "@@ -%d +%d @@\n", startLine(lines[h[0]:h[1]], true), startLine(lines[h[0]:h[1]], false)); err != nil {
			return err
		}

		for _, l := range lines[h[0]:h[1]] {
			var err error

			switch l.Op {
			case OpInsert:
				_, err = add.Fprintln(w, "+"+l.Text)
			case OpDelete:
				_, err = del.Fprintln(w, "-"+l.Text)
			default:
				_, err = fmt.Fprintln(w, " "+l.Text)
			}

			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (p Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c
}

// hunks groups changed lines with their context into [start, end) ranges.
// Ranges whose context overlaps are merged.
func hunks(lines []Line, context int) [][2]int {
	var out [][2]int

	for i, l := range lines {
		if l.Op == OpEqual {
			continue
		}

		start := max(i-context, 0)
		end := min(i+context+1, len(lines))

		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], end)

			continue
		}

		out = append(out, [2]int{start, end})
	}

	return out
}

// startLine returns the first line number of a hunk on the old or new side,
// 0 when that side has no lines in it.
func startLine(hunk []Line, old bool) int {
	for _, l := range hunk {
		if old && l.Old > 0 {
			return l.Old
		}

		if !old && l.New > 0 {
			return l.New
		}
	}

	return 0
}

// ColorEnabled reports whether diff output to w should be coloured: w must be
// a terminal and NO_COLOR must be unset in env.
func ColorEnabled(w io.Writer, env map[string]string) bool {
	if _, ok := env["NO_COLOR"]; ok {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
