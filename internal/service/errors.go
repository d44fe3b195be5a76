package service

import "fmt"

type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(jobID string) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %s not found", jobID)}
}

type ErrVideoNotFound struct {
	error
}

func NewErrVideoNotFound(reference string) *ErrVideoNotFound {
	return &ErrVideoNotFound{fmt.Errorf("video reference %q does not resolve", reference)}
}

// ErrJobInFlight signals that a run for the same job id is already
// executing; at most one run per id may be in flight at a time.
type ErrJobInFlight struct {
	error
}

func NewErrJobInFlight(jobID string) *ErrJobInFlight {
	return &ErrJobInFlight{fmt.Errorf("job %s is already being processed", jobID)}
}

// ErrQueueFull is the backpressure signal to the intake shell.
type ErrQueueFull struct {
	error
}

func NewErrQueueFull() *ErrQueueFull {
	return &ErrQueueFull{fmt.Errorf("job queue is saturated, retry later")}
}

// ErrPersistence distinguishes a failed write from a failed analysis; the
// analysis itself may have succeeded.
type ErrPersistence struct {
	error
}

func NewErrPersistence(jobID string, cause error) *ErrPersistence {
	return &ErrPersistence{fmt.Errorf("persisting result for job %s: %w", jobID, cause)}
}
