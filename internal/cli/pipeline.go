package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/schema-merge/internal/config"
	"github.com/calvinalkan/schema-merge/internal/fs"
	"github.com/calvinalkan/schema-merge/internal/merge"
	"github.com/calvinalkan/schema-merge/internal/source"
)

// sourceFlags are the input and engine flags shared by merge, diff and
// directives. They override the loaded config when set.
type sourceFlags struct {
	flags      *flag.FlagSet
	base       []string
	decorators []string
	output     string
	header     string
	kinds      []string
}

func newSourceFlags(name string) *sourceFlags {
	sf := &sourceFlags{flags: flag.NewFlagSet(name, flag.ContinueOnError)}
	flags := sf.flags

	flags.StringArrayVarP(&sf.base, "base", "b", nil, "Base schema file or glob (repeatable, - for stdin)")
	// -d/--datasource is the older spelling of --base; both fill the same list.
	flags.VarP(flags.Lookup("base").Value, "datasource", "d", "Alias for --base")
	flags.StringArrayVarP(&sf.decorators, "decorator", "e", nil, "Decorator file or glob (repeatable, - for stdin)")
	flags.StringVarP(&sf.output, "output", "o", "", "Output file (default "+config.DefaultOutput+")")
	flags.StringVar(&sf.header, "header", "", "First line of the generated file")
	flags.StringArrayVar(&sf.kinds, "kind", nil, "Extra block keyword such as enum (repeatable)")

	flags.SetNormalizeFunc(func(_ *flag.FlagSet, name string) flag.NormalizedName {
		switch name {
		case "outputFile", "output-file":
			name = "output"
		case "decorators":
			name = "decorator"
		}

		return flag.NormalizedName(name)
	})

	return sf
}

func (sf *sourceFlags) overrides() config.Overrides {
	o := config.Overrides{
		Base:       sf.base,
		Decorators: sf.decorators,
		BlockKinds: sf.kinds,
	}

	if sf.flags.Changed("output") {
		o.Output = &sf.output
	}

	if sf.flags.Changed("header") {
		o.Header = &sf.header
	}

	return o
}

func loadConfig(g *globals, o config.Overrides) (config.Config, error) {
	return config.Load(config.LoadInput{
		WorkDirOverride: g.workDir,
		ConfigPath:      g.configPath,
		Overrides:       o,
		Env:             g.env,
	})
}

// merged is the outcome of loading sources and running the engine.
type merged struct {
	cfg    config.Config
	input  source.Input
	result merge.Result
}

// runMerge loads config and sources and merges them. Nothing is written.
func runMerge(g *globals, sf *sourceFlags) (merged, error) {
	cfg, err := loadConfig(g, sf.overrides())
	if err != nil {
		return merged{}, err
	}

	input, err := source.New(fs.NewReal(), cfg.EffectiveCwd, g.stdin).Load(cfg.Base, cfg.Decorators)
	if err != nil {
		return merged{}, err
	}

	g.log.Debug("loaded sources",
		zap.Strings("base", input.Base),
		zap.Strings("decorators", input.Decorators),
		zap.Int("bytes", len(input.Text)),
	)

	engine := merge.NewEngine(
		merge.WithBlockKinds(cfg.BlockKinds...),
		merge.WithHeader(cfg.Header),
		merge.WithLogger(g.log),
	)

	result, err := engine.Merge(input.Text)
	if err != nil {
		var derr *merge.DirectiveError
		if errors.As(err, &derr) {
			return merged{}, fmt.Errorf("%s: %w", locate(cfg, input, derr.Offset), err)
		}

		return merged{}, fmt.Errorf("merging %d source(s): %w", len(input.Files()), err)
	}

	return merged{cfg: cfg, input: input, result: result}, nil
}

// locate renders an offset in the concatenated input as "file:line", with the
// file relative to the working directory when possible.
func locate(cfg config.Config, input source.Input, offset int) string {
	path, line := input.Locate(offset)

	if rel, err := filepath.Rel(cfg.EffectiveCwd, path); err == nil && filepath.IsAbs(path) {
		path = rel
	}

	return fmt.Sprintf("%s:%d", path, line)
}
