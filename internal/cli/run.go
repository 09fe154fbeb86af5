// Package cli implements the schema-merge command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	binName = "schema-merge"

	exitInterrupted = 130

	consumedNone = 0
	consumedOne  = 1
	consumedTwo  = 2
)

var (
	// ErrFlagRequiresArg is returned when a global flag has no value.
	ErrFlagRequiresArg = errors.New("flag requires an argument")

	// ErrUnexpectedArg is returned when a command gets positional arguments.
	ErrUnexpectedArg = errors.New("unexpected argument")

	// ErrInterrupted is returned when a signal arrives before output is written.
	ErrInterrupted = errors.New("interrupted")
)

// globals are the values every command sees.
type globals struct {
	workDir    string
	configPath string
	verbose    bool
	env        map[string]string
	stdin      io.Reader
	stdout     io.Writer
	log        *zap.Logger
}

// Run is the main entry point. Returns exit code.
//
// args[0] is the program name. A signal on sigCh cancels the command's
// context; commands check it before writing and exit with 130. sigCh may be
// nil.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	g, rest, err := parseGlobalFlags(args[min(1, len(args)):])
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return 1
	}

	g.env = env
	g.stdin = stdin
	g.stdout = out
	g.log = newLogger(errOut, g.verbose)

	defer func() { _ = g.log.Sync() }()

	commands := []*Command{
		MergeCmd(g),
		DiffCmd(g),
		DirectivesCmd(g),
		PrintConfigCmd(g),
	}

	if len(rest) > 0 && (rest[0] == "-h" || rest[0] == "--help" || rest[0] == "help") {
		printUsage(out, commands)

		return 0
	}

	// Flags without a command run merge, so the tool keeps working as
	// "schema-merge -d base.prisma -e decorator.prisma".
	cmd := commands[0]

	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		cmd = findCommand(commands, rest[0])
		if cmd == nil {
			fprintln(errOut, "error: unknown command:", rest[0])
			printUsage(errOut, commands)

			return 1
		}

		rest = rest[1:]
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	watchSignals(ctx, cancel, sigCh)

	return cmd.Run(ctx, NewIO(out, errOut), rest)
}

// watchSignals cancels ctx with [ErrInterrupted] on the first signal. A
// signal already pending on sigCh cancels before watchSignals returns.
func watchSignals(ctx context.Context, cancel context.CancelCauseFunc, sigCh <-chan os.Signal) {
	if sigCh == nil {
		return
	}

	interrupt := func(sig os.Signal) {
		cancel(fmt.Errorf("%w: %v", ErrInterrupted, sig))
	}

	select {
	case sig := <-sigCh:
		interrupt(sig)

		return
	default:
	}

	go func() {
		select {
		case sig := <-sigCh:
			interrupt(sig)
		case <-ctx.Done():
		}
	}()
}

func findCommand(commands []*Command, name string) *Command {
	for _, c := range commands {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func newLogger(errOut io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(errOut),
		zap.NewAtomicLevelAt(zapcore.DebugLevel),
	)

	return zap.New(core).Named(binName)
}

func parseGlobalFlags(args []string) (*globals, []string, error) {
	g := &globals{}

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, g)
		if err != nil {
			return nil, nil, err
		}

		if consumed == consumedNone {
			break
		}

		idx += consumed
	}

	return g, args[idx:], nil
}

// parseFlag tries to parse a global flag at args[idx]. Returns number of args
// consumed (0 if not a global flag).
func parseFlag(args []string, idx int, g *globals) (int, error) {
	arg := args[idx]

	switch arg {
	case "-C", "--cwd", "-c", "--config":
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		if arg == "-C" || arg == "--cwd" {
			g.workDir = args[idx+1]
		} else {
			g.configPath = args[idx+1]
		}

		return consumedTwo, nil
	case "-v", "--verbose":
		g.verbose = true

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		g.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		g.configPath = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok && after != "" {
		g.workDir = after

		return consumedOne, nil
	}

	return consumedNone, nil
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, "Usage:", binName, "[global flags] [command] [flags]")
	fprintln(w)
	fprintln(w, "Merges a base schema with decorator directives (extends, remove, replaces).")
	fprintln(w, "Without a command, merge runs.")
	fprintln(w)
	fprintln(w, "Global flags:")
	fprintln(w, "  -C, --cwd <dir>        Run as if started in <dir>")
	fprintln(w, "  -c, --config <file>    Use <file> instead of .schema-merge.json")
	fprintln(w, "  -v, --verbose          Log merge steps to stderr")
	fprintln(w, "  -h, --help             Show help")

	if len(commands) == 0 {
		return
	}

	fprintln(w)
	fprintln(w, "Commands:")

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
