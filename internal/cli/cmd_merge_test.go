package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/schema-merge/internal/cli"
	"github.com/calvinalkan/schema-merge/internal/merge"
)

const (
	baseUser   = "model User {\n  id Int @id\n  name String\n}\n"
	removeName = "remove model User {\n  name\n}\n"
	mergedUser = merge.DefaultHeader + "\n" + "model User {\n  id Int @id\n}\n"
)

func setupUser(t *testing.T) *cli.CLI {
	t.Helper()

	c := cli.NewCLI(t)
	c.WriteFile("base.prisma", baseUser)
	c.WriteFile("deco.prisma", removeName)

	if err := os.Mkdir(filepath.Join(c.Dir, "prisma"), 0o755); err != nil {
		t.Fatalf("mkdir prisma: %v", err)
	}

	return c
}

func Test_Merge_Is_Default_Command_With_Legacy_Flags(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	stdout := c.MustRun("-d", "base.prisma", "-e", "deco.prisma")

	if got, want := stdout, "File prisma/schema.prisma created."; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	if diff := cmp.Diff(mergedUser, c.ReadFile("prisma/schema.prisma")); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func Test_Merge_Writes_To_Output_Flag_And_Aliases(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"-o", "--output", "--output-file", "--outputFile"} {
		t.Run(flag, func(t *testing.T) {
			t.Parallel()

			c := setupUser(t)
			stdout := c.MustRun("merge", "--base", "base.prisma", "--decorator", "deco.prisma", flag, "out.prisma")

			cli.AssertContains(t, stdout, "File out.prisma created.")

			if got := c.ReadFile("out.prisma"); got != mergedUser {
				t.Errorf("out.prisma=%q, want=%q", got, mergedUser)
			}
		})
	}
}

func Test_Merge_Returns_Error_When(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name  string
		files map[string]string
		args  []string
		want  string
	}{
		{
			name: "output dir missing",
			args: []string{"-b", "base.prisma", "-e", "deco.prisma", "-o", "nope/schema.prisma"},
			want: "output directory does not exist",
		},
		{
			name: "no base given",
			args: []string{"-e", "deco.prisma"},
			want: "no base schema files found",
		},
		{
			name: "base file missing",
			args: []string{"-b", "missing.prisma"},
			want: "source file does not exist",
		},
		{
			name: "decorator file missing",
			args: []string{"-b", "base.prisma", "-e", "missing.prisma"},
			want: "source file does not exist",
		},
		{
			name:  "malformed directive",
			files: map[string]string{"bad.prisma": "remove model User\n"},
			args:  []string{"-b", "base.prisma", "-e", "bad.prisma"},
			want:  "bad.prisma:1: malformed directive at line 5",
		},
		{
			name:  "extends target missing",
			files: map[string]string{"ext.prisma": "extends model Post {\n  id Int\n}\n"},
			args:  []string{"-b", "base.prisma", "-e", "ext.prisma"},
			want:  "ext.prisma:1: target block not found at line 5: extends model Post",
		},
		{
			name: "empty output",
			args: []string{"-b", "base.prisma", "--output="},
			want: "output cannot be empty",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := setupUser(t)
			for name, content := range tt.files {
				c.WriteFile(name, content)
			}

			stderr := c.MustFail(tt.args...)
			cli.AssertContains(t, stderr, "error:")
			cli.AssertContains(t, stderr, tt.want)

			if c.Exists("prisma/schema.prisma") {
				t.Error("output written despite error")
			}
		})
	}
}

func Test_Merge_Stdout_Prints_Without_Writing(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	stdout, _, code := c.Run("-b", "base.prisma", "-e", "deco.prisma", "--stdout")

	if code != 0 {
		t.Fatalf("exit code=%d, want 0", code)
	}

	if diff := cmp.Diff(mergedUser, stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}

	if c.Exists("prisma/schema.prisma") {
		t.Error("--stdout wrote the output file")
	}
}

func Test_Merge_Reads_Decorator_From_Stdin(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	stdout, stderr, code := c.RunWithInput(removeName, "-b", "base.prisma", "-e", "-", "--stdout")

	if code != 0 {
		t.Fatalf("exit code=%d, stderr=%s", code, stderr)
	}

	if got, want := stdout, mergedUser; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}

func Test_Merge_Applies_Decorator_When_Base_Lacks_Trailing_Newline(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	c.WriteFile("base.prisma", strings.TrimSuffix(baseUser, "\n"))

	c.MustRun("-b", "base.prisma", "-e", "deco.prisma")

	if diff := cmp.Diff(mergedUser, c.ReadFile("prisma/schema.prisma")); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func Test_Merge_Check_Reports_Stale_Output(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	args := []string{"-b", "base.prisma", "-e", "deco.prisma"}

	stderr := c.MustFail(append(args, "--check")...)
	cli.AssertContains(t, stderr, "warning: prisma/schema.prisma is out of date")

	if c.Exists("prisma/schema.prisma") {
		t.Fatal("--check wrote the output file")
	}

	c.MustRun(args...)

	stdout := c.MustRun(append(args, "--check")...)
	cli.AssertContains(t, stdout, "prisma/schema.prisma is up to date.")
}

func Test_Merge_Uses_Config_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".schema-merge.json", `{
		// enum blocks are edited too
		"base": ["schema/*.prisma"],
		"decorators": ["decorators/**/*.prisma"],
		"output": "out/schema.prisma",
		"header": "// generated",
		"block_kinds": ["enum"],
	}`)
	c.WriteFile("schema/role.prisma", "enum Role {\n  USER\n  ADMIN\n}\n")
	c.WriteFile("decorators/auth/role.prisma", "remove enum Role {\n  ADMIN\n}\n")
	c.WriteFile("out/.keep", "")

	stdout := c.MustRun()
	cli.AssertContains(t, stdout, "File out/schema.prisma created.")

	if diff := cmp.Diff("// generated\nenum Role {\n  USER\n}\n", c.ReadFile("out/schema.prisma")); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func Test_Merge_Interrupted_Before_Write(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	stdout, stderr, code := c.RunWithSignal(os.Interrupt, "-b", "base.prisma", "-e", "deco.prisma")

	if got, want := code, 130; got != want {
		t.Errorf("exit code=%d, want=%d", got, want)
	}

	if stdout != "" {
		t.Errorf("stdout=%q, want empty", stdout)
	}

	cli.AssertContains(t, stderr, "interrupted")

	if c.Exists("prisma/schema.prisma") {
		t.Error("output written after interrupt")
	}
}

func Test_Merge_Verbose_Logs_To_Stderr(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	_, stderr, code := c.Run("-v", "-b", "base.prisma", "-e", "deco.prisma", "--stdout")

	if code != 0 {
		t.Fatalf("exit code=%d, stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stderr, "extracted directives")
	cli.AssertContains(t, stderr, "loaded sources")

	_, quiet, _ := c.Run("-b", "base.prisma", "-e", "deco.prisma", "--stdout")
	if quiet != "" {
		t.Errorf("stderr without -v=%q, want empty", quiet)
	}
}
