// Package sched error types.
package sched

import (
	"errors"
	"fmt"
)

// Sentinel errors for the "user-visible negatives" class (spec §7.3).
var (
	// ErrNoChildren is returned by Wait/Waitx when the caller has no
	// children to reap.
	ErrNoChildren = errors.New("sched: no children")
	// ErrKilled is returned by Wait/Waitx when the caller was killed while
	// waiting.
	ErrKilled = errors.New("sched: caller killed")
	// ErrUnknownPID is returned by Kill and CPR when no process matches the
	// given pid.
	ErrUnknownPID = errors.New("sched: unknown pid")
	// ErrTableFull is returned by AllocProc when no UNUSED slot is available
	// (spec §7.2).
	ErrTableFull = errors.New("sched: process table full")
	// ErrAllocFailed is returned by Fork when address-space cloning or
	// kernel-stack allocation fails for the child (spec §7.2).
	ErrAllocFailed = errors.New("sched: allocation failed")
)

// InvariantError reports a violated scheduler invariant — a condition the
// design treats as fatal rather than recoverable (spec §7.1). This package
// panics with it when sched is called while RUNNING, when sleep has no
// caller process, when init exits, and when a rate counter is built with an
// invalid window; WithNumCPU also returns it as an error for n < 1.
//
// Real xv6 calls panic() and halts the machine; here we panic with this type
// instead. Nothing in this package recovers it: an InvariantError that the
// caller does not recover ends the Go program with its diagnostic.
type InvariantError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sched: invariant violated: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("sched: invariant violated: %s", e.Message)
}

// Unwrap returns the underlying cause, if any, for errors.Is/errors.As.
func (e *InvariantError) Unwrap() error {
	return e.Cause
}

// fatalf panics with an *InvariantError.
func fatalf(format string, args ...any) {
	panic(&InvariantError{Message: fmt.Sprintf(format, args...)})
}

// WrapError wraps an error with a message and cause chain, matching the
// errors.Is/errors.As contract.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
