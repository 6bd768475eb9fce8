package main

import (
	"errors"
	"os"

	"resume-render/internal/compiler"
)

// Exit codes for resume-render.
const (
	ExitSuccess    = 0 // Artifacts written
	ExitUsage      = 1 // Invalid flags or unreadable input
	ExitValidation = 2 // Resume rejected
	ExitInternal   = 3 // Rendering or writing failed
)

// ErrUsage marks bad flags and input that cannot be parsed.
var ErrUsage = errors.New("usage error")

// exitCodeFor returns the appropriate exit code for an error.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage), errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return ExitUsage
	case errors.Is(err, compiler.ErrInvalidInput):
		return ExitValidation
	default:
		return ExitInternal
	}
}
