package merge_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/schema-merge/internal/merge"
)

func TestMatchTokens(t *testing.T) {
	t.Parallel()

	lines := []string{
		"model User {",
		"  id Int @id",
		"\tname\tString",
		"}",
		"",
		"  @@map(\"users\")",
		"  modelName String",
		"datasource db {   ",
		"generator client {\r",
		"enum Role {",
		"  ADMIN",
	}

	tests := []struct {
		name  string
		kinds []string
		want  []string
	}{
		{
			name:  "default kinds",
			kinds: merge.DefaultBlockKinds,
			want: []string{
				"model User {",
				"id",
				"name",
				"}",
				"",
				"@@map(\"users\")",
				"modelName",
				"datasource db {",
				"generator client {",
				"enum",
				"ADMIN",
			},
		},
		{
			name:  "extra enum kind",
			kinds: append([]string{"enum"}, merge.DefaultBlockKinds...),
			want: []string{
				"model User {",
				"id",
				"name",
				"}",
				"",
				"@@map(\"users\")",
				"modelName",
				"datasource db {",
				"generator client {",
				"enum Role {",
				"ADMIN",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := merge.MatchTokens(lines, tt.kinds)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MatchTokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
