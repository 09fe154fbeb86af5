package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReal_Exists(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	dir := t.TempDir()
	file := filepath.Join(dir, "exists.prisma")

	if err := os.WriteFile(file, []byte("model A {}\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	for _, tt := range []struct {
		path string
		want bool
	}{
		{path: file, want: true},
		{path: dir, want: true},
		{path: filepath.Join(dir, "missing.prisma"), want: false},
	} {
		got, err := fs.Exists(tt.path)
		if err != nil {
			t.Fatalf("Exists(%q): %v", tt.path, err)
		}

		if got != tt.want {
			t.Errorf("Exists(%q)=%v, want=%v", tt.path, got, tt.want)
		}
	}
}

func TestReal_WriteFileAtomic_Replaces_Content_And_Sets_Perm(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "schema.prisma")

	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := fs.WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got, want := string(data), "new"; got != want {
		t.Errorf("content=%q, want=%q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if got, want := info.Mode().Perm(), os.FileMode(0o644); got != want {
		t.Errorf("perm=%v, want=%v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only the target (temp file left behind?)", len(entries))
	}
}

func TestReal_WriteFileAtomic_Fails_When_Dir_Missing(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "missing", "schema.prisma")

	if err := fs.WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Fatal("WriteFileAtomic into missing dir: want error")
	}
}
