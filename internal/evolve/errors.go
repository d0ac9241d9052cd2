package evolve

import "errors"

// Domain errors for evolution operations.
var (
	// ErrDimensionMismatch indicates operators or states of inconsistent size.
	ErrDimensionMismatch = errors.New("evolve: dimension mismatch between operators and state")

	// ErrInvalidState indicates an evolved state with NaN or Inf amplitudes.
	ErrInvalidState = errors.New("evolve: invalid state (NaN or Inf detected)")

	// ErrBadAmplitudes indicates an amplitude table of the wrong shape.
	ErrBadAmplitudes = errors.New("evolve: amplitude table shape does not match timeslots and controls")

	// ErrBadTimeslicing indicates non-positive timeslot count or evolution time.
	ErrBadTimeslicing = errors.New("evolve: timeslots and evolution time must be positive")
)
