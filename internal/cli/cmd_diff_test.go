package cli_test

import (
	"testing"

	"github.com/calvinalkan/schema-merge/internal/cli"
)

func Test_Diff_Shows_Changes_Against_Existing_Output(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	c.WriteFile("prisma/schema.prisma", "model User {\n  id Int @id\n  name String\n}\n")

	stdout := c.MustRun("diff", "-b", "base.prisma", "-e", "deco.prisma")

	cli.AssertContains(t, stdout, "--- prisma/schema.prisma\n+++ prisma/schema.prisma")
	cli.AssertContains(t, stdout, "+"+"// This file was generated by schema-merge. DO NOT EDIT.")
	cli.AssertContains(t, stdout, "-  name String")
	cli.AssertNotContains(t, stdout, "\x1b[")

	if got := c.ReadFile("prisma/schema.prisma"); got != baseUser {
		t.Errorf("diff modified the output file: %q", got)
	}
}

func Test_Diff_Against_Missing_Output_Uses_Dev_Null(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	stdout := c.MustRun("diff", "-b", "base.prisma", "-e", "deco.prisma")

	cli.AssertContains(t, stdout, "--- /dev/null")
	cli.AssertContains(t, stdout, "+  id Int @id")
}

func Test_Diff_Reports_No_Changes_After_Merge(t *testing.T) {
	t.Parallel()

	c := setupUser(t)
	c.MustRun("-b", "base.prisma", "-e", "deco.prisma")

	stdout := c.MustRun("diff", "-b", "base.prisma", "-e", "deco.prisma")
	if got, want := stdout, "No changes."; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}
