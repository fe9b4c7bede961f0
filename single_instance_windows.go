//go:build windows

package main

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var lockHandle windows.Handle

// EnsureSingleInstance makes sure only one wincred dialog is open per session.
// On Windows, uses a named mutex in the session namespace.
func EnsureSingleInstance() error {
	mutexName, err := windows.UTF16PtrFromString(`Local\wincred-credential-prompt`)
	if err != nil {
		return fmt.Errorf("failed to create mutex name: %w", err)
	}

	handle, err := windows.CreateMutex(nil, false, mutexName)
	if err != nil {
		if handle != 0 {
			windows.CloseHandle(handle)
		}
		if err == windows.ERROR_ALREADY_EXISTS {
			return ErrPromptInProgress
		}
		return fmt.Errorf("failed to create mutex: %w", err)
	}

	// WAIT_OBJECT_0 means we own the mutex, WAIT_TIMEOUT means another process does
	event, err := windows.WaitForSingleObject(handle, 0)
	if err != nil || (event != windows.WAIT_OBJECT_0 && event != windows.WAIT_ABANDONED) {
		windows.CloseHandle(handle)
		return ErrPromptInProgress
	}

	lockHandle = handle
	return nil
}

// ReleaseSingleInstance releases the mutex
func ReleaseSingleInstance() {
	if lockHandle != 0 {
		windows.ReleaseMutex(lockHandle)
		windows.CloseHandle(lockHandle)
		lockHandle = 0
	}
}
