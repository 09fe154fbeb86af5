package fs

import (
	"errors"
	"os"
	"sync"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Op  Op
	Err error
}

func (e *InjectedError) Error() string {
	return string(e.Op) + ": " + e.Err.Error()
}

func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by
// [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Op names an [FS] method for fault injection.
type Op string

// Operations that [Faulty] can fail.
const (
	OpOpen            Op = "open"
	OpReadFile        Op = "read"
	OpWriteFileAtomic Op = "write"
	OpStat            Op = "stat"
	OpExists          Op = "exists"
)

// Faulty wraps an [FS] and fails selected operations, so callers can test
// error paths the real filesystem cannot produce on demand. Operations that
// are not failed pass through to the wrapped FS.
//
// Faulty is safe for concurrent use.
type Faulty struct {
	inner FS

	mu    sync.Mutex
	fails map[Op]error
	calls map[Op]int
}

// NewFaulty returns a Faulty wrapping inner with no faults armed.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{
		inner: inner,
		fails: make(map[Op]error),
		calls: make(map[Op]int),
	}
}

// Fail makes every later call of op return err wrapped in [InjectedError].
// A nil err disarms op.
func (f *Faulty) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.fails, op)

		return
	}

	f.fails[op] = &InjectedError{Op: op, Err: err}
}

// Calls returns how often op was called, failed or not.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) check(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	return f.fails[op]
}

func (f *Faulty) Open(path string) (File, error) {
	if err := f.check(OpOpen); err != nil {
		return nil, err
	}

	return f.inner.Open(path)
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat); err != nil {
		return nil, err
	}

	return f.inner.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpExists); err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

var _ FS = (*Faulty)(nil)
