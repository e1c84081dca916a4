package findiff

import (
	"errors"

	"github.com/born-ml/numdiff/internal/function"
)

// Argument and parameter errors are shared with the function package so that
// a single errors.Is check works whichever layer rejected the call.
var (
	ErrDimensionMismatch = function.ErrDimensionMismatch
	ErrInvalidParameter  = function.ErrInvalidParameter
)

var (
	// ErrGradientMismatch is matched by *GradientMismatch.
	ErrGradientMismatch = errors.New("findiff: gradient mismatch")

	// ErrJacobianMismatch is matched by *JacobianMismatch.
	ErrJacobianMismatch = errors.New("findiff: jacobian mismatch")

	// ErrUnsupported is returned when a policy cannot produce the requested output.
	ErrUnsupported = errors.New("findiff: unsupported by policy")
)
