//go:build !windows
// +build !windows

package main

// verifyCredential needs SSPI and is only available on Windows
func verifyCredential(cred *Credential) error {
	return ErrUnsupportedPlatform
}
