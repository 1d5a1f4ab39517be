//go:build !fcfs && !pbs && !mlfq

package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinPickNextCyclesThroughRunnable(t *testing.T) {
	pt, err := NewProcTable()
	require.NoError(t, err)

	a := newPCB()
	b := newPCB()
	pt.slots[0] = a
	pt.slots[1] = b
	a.State = Runnable
	b.State = Runnable

	p := pt.policy.(*roundRobinPolicy)
	first := p.PickNext(pt)
	require.NotNil(t, first)

	// The other Runnable process should be picked on the next call, since
	// PickNext resumes scanning just after the last dispatched index.
	second := p.PickNext(pt)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
}

func TestRoundRobinPickNextNilWhenNoneRunnable(t *testing.T) {
	pt, err := NewProcTable()
	require.NoError(t, err)
	assert.Nil(t, pt.policy.PickNext(pt))
}
