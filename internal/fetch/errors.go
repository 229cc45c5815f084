package fetch

import "errors"

var (
	// ErrExhausted marks a fetch that kept hitting transient upstream failures
	// until the retry budget ran out. Callers leave the previous snapshot in
	// place and wait for the next scheduled run.
	ErrExhausted = errors.New("retry attempts exhausted")

	// ErrMissingDependency marks a fetch invoked before the snapshot it
	// depends on exists. No network call is made in that case.
	ErrMissingDependency = errors.New("missing dependency snapshot")
)
