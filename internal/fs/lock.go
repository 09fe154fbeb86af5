package fs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

var (
	// ErrWouldBlock is returned when a lock cannot be acquired without waiting,
	// or when [Locker.LockWithTimeout] runs out of time.
	ErrWouldBlock = errors.New("lock would block")

	// ErrInvalidTimeout is returned when a timeout is <= 0.
	ErrInvalidTimeout = errors.New("invalid lock timeout")
)

// Locker takes exclusive flock(2) locks on directories.
//
// Locking the output directory serialises concurrent merges writing into it
// without leaving lock files behind. flock is advisory: only cooperating
// processes are excluded.
//
// This implementation is Unix-only.
type Locker struct {
	fs    FS
	flock func(fd int, how int) error
}

// NewLocker creates a Locker that opens directories through fs.
func NewLocker(fs FS) *Locker {
	return &Locker{
		fs:    fs,
		flock: unix.Flock,
	}
}

// Lock represents a held lock. Call [Lock.Close] to release it.
type Lock struct {
	mu    sync.Mutex
	file  File
	flock func(fd int, how int) error
}

// Close releases the lock and closes the descriptor.
//
// Close is idempotent. If both unlocking and closing fail, the returned error
// wraps both (see [errors.Join]).
func (lk *Lock) Close() error {
	lk.mu.Lock()
	defer lk.mu.Unlock()

	if lk.file == nil {
		return nil
	}

	fd := int(lk.file.Fd())

	unlockErr := flockRetryEINTR(lk.flock, fd, unix.LOCK_UN)
	closeErr := lk.file.Close()
	lk.file = nil

	if unlockErr != nil {
		unlockErr = fmt.Errorf("unlocking lock: %w", unlockErr)
	}

	if closeErr != nil {
		closeErr = fmt.Errorf("closing lock fd: %w", closeErr)
	}

	return errors.Join(unlockErr, closeErr)
}

// LockWithTimeout polls for an exclusive lock on the directory at path with
// exponential backoff (1ms to 25ms) until timeout expires. The directory must
// exist.
//
// Returns an error satisfying [errors.Is] with [ErrWouldBlock] on timeout and
// [ErrInvalidTimeout] if timeout <= 0.
func (l *Locker) LockWithTimeout(path string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be > 0", ErrInvalidTimeout)
	}

	file, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lock dir: %w", err)
	}

	deadline := time.Now().Add(timeout)
	backoff := time.Millisecond
	fd := int(file.Fd())

	for {
		err = flockRetryEINTR(l.flock, fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &Lock{file: file, flock: l.flock}, nil
		}

		if !isWouldBlock(err) {
			_ = file.Close()

			return nil, fmt.Errorf("flock: %w", err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			_ = file.Close()

			return nil, fmt.Errorf("%w: timed out after %s", ErrWouldBlock, timeout)
		}

		time.Sleep(min(backoff, remaining))

		backoff = min(backoff*2, 25*time.Millisecond)
	}
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN)
}

func flockRetryEINTR(flock func(int, int) error, fd, how int) error {
	for {
		err := flock(fd, how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
