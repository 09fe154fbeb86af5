// Package fs provides the filesystem seam used to read schema sources and
// write merged output.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the tool needs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] and atomic writes
//   - [Locker]: advisory directory locks via flock(2)
//   - [Faulty]: wrapper that fails chosen operations, for error-path tests
package fs

import (
	"io"
	"os"
)

// File represents an OS-backed open file descriptor.
//
// [File.Fd] must return a real descriptor usable with flock until the file is
// closed.
type File interface {
	io.ReadCloser

	// Fd returns the file descriptor. See [os.File.Fd].
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations used by source loading and output
// writing. Paths use OS semantics, like the os package.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type FS interface {
	// Open opens a file or directory for reading. See [os.Open].
	Open(path string) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces path with data via temp file + rename, then
	// sets perm on the result. Readers never observe a partial file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}

// Compile-time interface checks.
var (
	_ File = (*os.File)(nil)
	_ FS   = (*Real)(nil)
)
