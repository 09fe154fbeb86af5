package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/calvinalkan/schema-merge/internal/cli"
)

// Tests for print-config command.

func Test_Print_Config_Defaults_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "effective_cwd="+c.Dir)
	cli.AssertContains(t, stdout, "output="+filepath.Join(c.Dir, "prisma", "schema.prisma"))
	cli.AssertContains(t, stdout, "header=// This file was generated by schema-merge. DO NOT EDIT.")
	cli.AssertContains(t, stdout, "block_kinds=model,generator,datasource")
	cli.AssertContains(t, stdout, "(defaults only)")
}

func Test_Print_Config_From_Config_File_With_Comments_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".schema-merge.json", `{
		// This is a comment
		"base": ["a.prisma", "b/*.prisma"],
		"output": "generated.prisma",
		"block_kinds": ["enum", "model"],
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "base=a.prisma,b/*.prisma")
	cli.AssertContains(t, stdout, "output="+filepath.Join(c.Dir, "generated.prisma"))
	cli.AssertContains(t, stdout, "block_kinds=model,generator,datasource,enum\n")
	cli.AssertContains(t, stdout, "project_config="+filepath.Join(c.Dir, ".schema-merge.json"))
}

func Test_Print_Config_Explicit_Config_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"-c", "custom.json", "print-config"},
		{"--config=custom.json", "print-config"},
	} {
		c := cli.NewCLI(t)
		c.WriteFile("custom.json", `{"header": "// custom"}`)

		stdout := c.MustRun(args...)
		cli.AssertContains(t, stdout, "header=// custom")
	}
}

func Test_Print_Config_Global_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	xdg := t.TempDir()
	c.Env["XDG_CONFIG_HOME"] = xdg

	c.WriteFile(".schema-merge.json", `{"output": "project.prisma"}`)

	globalPath := filepath.Join(xdg, "schema-merge", "config.json")
	writeAbs(t, globalPath, `{"output": "global.prisma", "header": "// global"}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "output="+filepath.Join(c.Dir, "project.prisma"))
	cli.AssertContains(t, stdout, "header=// global")
	cli.AssertContains(t, stdout, "global_config="+globalPath)
}

func Test_Print_Config_Json_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".schema-merge.json", `{"decorators": ["d.prisma"]}`)

	stdout := c.MustRun("print-config", "--json")

	cli.AssertContains(t, stdout, `"decorators": [`)
	cli.AssertContains(t, stdout, `"output": "prisma/schema.prisma"`)
	cli.AssertNotContains(t, stdout, "effective_cwd")
}

// Tests for config errors.

func Test_Config_Explicit_Config_Not_Found_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("-c", "nonexistent.json", "print-config")
	cli.AssertContains(t, stderr, "config file not found")
}

func Test_Config_Invalid_JSON_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".schema-merge.json", `{invalid json}`)

	stderr := c.MustFail("print-config")
	cli.AssertContains(t, stderr, "invalid config file")
}

func Test_Config_Unknown_Key_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".schema-merge.json", `{"outputFile": "x.prisma"}`)

	stderr := c.MustFail("print-config")
	cli.AssertContains(t, stderr, "outputFile")
}

func Test_Config_Multiline_Header_Via_CLI_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("base.prisma", baseUser)

	stderr := c.MustFail("-b", "base.prisma", "--header", "a\nb", "--stdout")
	cli.AssertContains(t, stderr, "header must be a single line")
}
