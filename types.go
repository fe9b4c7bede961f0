// Package main implements wincred, a command that asks the user for a
// username and password through the native Windows credential dialog and
// hands the result to a calling script.
package main
