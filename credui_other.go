//go:build !windows
// +build !windows

package main

// defaultCredUI returns nil: there is no native credential dialog here
func defaultCredUI() credUI {
	return nil
}
