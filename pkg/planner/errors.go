package planner

import "errors"

var (
	// ErrMalformedInput is returned when the input fails validation.
	ErrMalformedInput = errors.New("malformed planning input")
	// ErrMissingDemand is returned when a fuel has no demand for a period.
	ErrMissingDemand = errors.New("missing demand")
	// ErrUnknownFuel is returned when a named fuel is not planned.
	ErrUnknownFuel = errors.New("unknown fuel")
)
