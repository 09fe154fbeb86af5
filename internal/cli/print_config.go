package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/schema-merge/internal/config"
	"github.com/calvinalkan/schema-merge/internal/merge"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(g *globals) *Command {
	jsonOut := false

	flags := flag.NewFlagSet("print-config", flag.ContinueOnError)
	flags.BoolVar(&jsonOut, "json", false, "Print the merged config file values as JSON")

	return &Command{
		Flags: flags,
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			cfg, err := loadConfig(g, config.Overrides{})
			if err != nil {
				return err
			}

			if jsonOut {
				out, err := config.Format(cfg)
				if err != nil {
					return err
				}

				io.Println(out)

				return nil
			}

			execPrintConfig(io, cfg)

			return nil
		},
	}
}

func execPrintConfig(io *IO, cfg config.Config) {
	header := cfg.Header
	if header == "" {
		header = merge.DefaultHeader
	}

	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("base=" + strings.Join(cfg.Base, ","))
	io.Println("decorators=" + strings.Join(cfg.Decorators, ","))
	io.Println("output=" + cfg.OutputAbs)
	io.Println("header=" + header)
	io.Println("block_kinds=" + strings.Join(merge.NewEngine(merge.WithBlockKinds(cfg.BlockKinds...)).BlockKinds(), ","))

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}
}
