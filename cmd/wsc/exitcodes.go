package main

import "os"

// Exit codes. Every handled failure exits 1 after printing a message;
// scripts rely on the 0/1 contract, so no finer-grained codes exist.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitError indicates any handled failure
	ExitError = 1
)

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}
