//go:build fcfs

package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFCFSPicksSmallestCTime(t *testing.T) {
	pt, err := NewProcTable()
	require.NoError(t, err)

	a := newPCB()
	a.State = Runnable
	a.CTime = 30
	b := newPCB()
	b.State = Runnable
	b.CTime = 10
	c := newPCB()
	c.State = Runnable
	c.CTime = 20
	pt.slots[0], pt.slots[1], pt.slots[2] = a, b, c

	picked := pt.policy.PickNext(pt)
	require.NotNil(t, picked)
	assert.Same(t, b, picked)
}

func TestFCFSNilWhenNoneRunnable(t *testing.T) {
	pt, err := NewProcTable()
	require.NoError(t, err)
	assert.Nil(t, pt.policy.PickNext(pt))
}
