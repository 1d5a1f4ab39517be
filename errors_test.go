package sched

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvariantErrorMessage(t *testing.T) {
	err := &InvariantError{Message: "sched called while RUNNING"}
	assert.Contains(t, err.Error(), "invariant violated")
	assert.Contains(t, err.Error(), "sched called while RUNNING")

	wrapped := &InvariantError{Message: "outer", Cause: ErrUnknownPID}
	assert.ErrorIs(t, wrapped, ErrUnknownPID)
}

func TestWrapError(t *testing.T) {
	err := WrapError("allocproc", ErrTableFull)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTableFull))
	assert.Contains(t, err.Error(), "allocproc")
}

func TestFatalfPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		ie, ok := r.(*InvariantError)
		require.True(t, ok)
		assert.Contains(t, ie.Message, "boom")
	}()
	fatalf("boom: %d", 7)
}
