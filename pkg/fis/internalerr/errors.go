package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// Inference errors
	ErrUnknownVariable     = errors.New("unknown variable")
	ErrUnknownValue        = errors.New("unknown value")
	ErrMalformedFunction   = errors.New("malformed membership function")
	ErrMalformedExpression = errors.New("malformed rule expression")
)
