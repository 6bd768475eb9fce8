package compiler

import "resume-render/pkg/utils"

// Failure classes returned by Compile. They alias the shared sentinels so
// errors.Is works the same from any package.
var (
	// ErrInvalidInput: the resume was rejected before rendering.
	ErrInvalidInput = utils.ErrInvalidInput
	// ErrUnavailable: the compiler is draining or the latest slot could not be written.
	ErrUnavailable = utils.ErrUnavailable
	// ErrInvariant: a renderer failed or produced empty output on valid input.
	ErrInvariant = utils.ErrInvariant
)
