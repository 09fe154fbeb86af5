package fs

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func Test_Locker_LockWithTimeout_Returns_ErrWouldBlock_When_Dir_Is_Locked(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())
	dir := t.TempDir()

	lock1, err := locker.LockWithTimeout(dir, time.Second)
	if err != nil {
		t.Fatalf("LockWithTimeout(%q): %v", dir, err)
	}
	defer lock1.Close()

	_, err = locker.LockWithTimeout(dir, 50*time.Millisecond)
	if !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("LockWithTimeout(%q): err=%v, want %v", dir, err, ErrWouldBlock)
	}

	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("LockWithTimeout(%q): err=%q, want substring %q", dir, err.Error(), "timed out")
	}
}

func Test_Locker_LockWithTimeout_Succeeds_After_Release(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())
	dir := t.TempDir()

	lock1, err := locker.LockWithTimeout(dir, time.Second)
	if err != nil {
		t.Fatalf("LockWithTimeout(%q): %v", dir, err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = lock1.Close()
	}()

	lock2, err := locker.LockWithTimeout(dir, 2*time.Second)
	if err != nil {
		t.Fatalf("LockWithTimeout(%q): %v", dir, err)
	}

	if err := lock2.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
}

func Test_Locker_LockWithTimeout_Returns_Error_When_Timeout_Is_Non_Positive(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())

	_, err := locker.LockWithTimeout(t.TempDir(), 0)
	if !errors.Is(err, ErrInvalidTimeout) {
		t.Fatalf("LockWithTimeout(0): err=%v, want %v", err, ErrInvalidTimeout)
	}
}

func Test_Locker_LockWithTimeout_Returns_Error_When_Dir_Missing(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())
	dir := filepath.Join(t.TempDir(), "missing")

	lock, err := locker.LockWithTimeout(dir, time.Second)
	if err == nil {
		_ = lock.Close()
		t.Fatalf("LockWithTimeout(%q): want error for missing dir", dir)
	}
}

func Test_Lock_Close_Is_Idempotent(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())

	lock, err := locker.LockWithTimeout(t.TempDir(), time.Second)
	if err != nil {
		t.Fatalf("LockWithTimeout: %v", err)
	}

	if err := lock.Close(); err != nil {
		t.Fatalf("first Close(): %v", err)
	}

	if err := lock.Close(); err != nil {
		t.Fatalf("second Close(): %v", err)
	}
}
