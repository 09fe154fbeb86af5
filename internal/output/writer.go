// Package output writes merged schemas to disk and renders the difference
// between a merge result and what is already on disk.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/schema-merge/internal/fs"
)

// ErrMissingDestination is returned when the output file's directory does not
// exist. Directories are never created.
var ErrMissingDestination = errors.New("output directory does not exist")

// DefaultLockTimeout bounds how long Write waits for another writer holding
// the output directory.
const DefaultLockTimeout = 5 * time.Second

const filePerm = 0o644

// Writer replaces output files atomically while holding an exclusive lock on
// their parent directory.
type Writer struct {
	fs      fs.FS
	locker  *fs.Locker
	timeout time.Duration
	log     *zap.Logger
}

// NewWriter returns a Writer backed by fsys. A nil logger discards logs.
func NewWriter(fsys fs.FS, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}

	return &Writer{
		fs:      fsys,
		locker:  fs.NewLocker(fsys),
		timeout: DefaultLockTimeout,
		log:     log,
	}
}

// WithTimeout returns a copy of w that waits at most d for the directory lock.
func (w *Writer) WithTimeout(d time.Duration) *Writer {
	cp := *w
	cp.timeout = d

	return &cp
}

// Write replaces dest with text. The parent directory must already exist.
// Readers never observe a partially written file.
func (w *Writer) Write(dest, text string) error {
	dir := filepath.Dir(dest)

	info, err := w.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingDestination, dir)
		}

		return fmt.Errorf("checking output dir: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrMissingDestination, dir)
	}

	lock, err := w.locker.LockWithTimeout(dir, w.timeout)
	if err != nil {
		return fmt.Errorf("locking %s: %w", dir, err)
	}

	defer func() { _ = lock.Close() }()

	err = w.fs.WriteFileAtomic(dest, []byte(text), filePerm)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	w.log.Debug("wrote output", zap.String("path", dest), zap.Int("bytes", len(text)))

	return nil
}

// Current returns the content of dest, or ok=false when it does not exist.
func (w *Writer) Current(dest string) (string, bool, error) {
	data, err := w.fs.ReadFile(dest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("reading %s: %w", dest, err)
	}

	return string(data), true, nil
}
