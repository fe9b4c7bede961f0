//go:build !windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

var lockFile *os.File

// EnsureSingleInstance makes sure only one wincred prompt runs per user.
func EnsureSingleInstance() error {
	lockPath := getLockFilePath()

	dir := filepath.Dir(lockPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	// Non-blocking exclusive lock, held while the file stays open
	err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		f.Close()
		return ErrPromptInProgress
	}

	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	lockFile = f
	return nil
}

// ReleaseSingleInstance releases the lock file
func ReleaseSingleInstance() {
	if lockFile != nil {
		syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)
		lockFile.Close()
		os.Remove(getLockFilePath())
		lockFile = nil
	}
}

func getLockFilePath() string {
	dir := ConfigDir()
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "wincred.lock")
}
