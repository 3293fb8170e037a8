package config

import (
	"fmt"
	"os"
)

// Exitf prints a formatted message to stderr followed by a newline, then
// terminates the process with exit code 1. Deferred functions do not run.
func Exitf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, args...))
	os.Exit(1)
}
