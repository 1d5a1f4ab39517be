package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickClockAdvance(t *testing.T) {
	c := newTickClock()
	assert.EqualValues(t, 0, c.Now())
	assert.EqualValues(t, 1, c.Advance(1))
	assert.EqualValues(t, 5, c.Advance(4))
	assert.EqualValues(t, 5, c.Now())
}

func TestMemKernelStackAllocator(t *testing.T) {
	a := newMemKernelStackAllocator()
	ks, err := a.Alloc()
	require.NoError(t, err)
	require.NotNil(t, ks)
	a.Free(ks) // no-op, must not panic
}

func TestMemVMCloneGrowShrink(t *testing.T) {
	vm := newMemVM()
	kernel, err := vm.SetupKernel()
	require.NoError(t, err)
	require.NotNil(t, kernel)

	clone, err := vm.Clone(kernel, 4096)
	require.NoError(t, err)

	grown, err := vm.Grow(clone, 4096, 8192)
	require.NoError(t, err)
	assert.Equal(t, uintptr(8192), grown.(*memAddressSpace).sz)

	shrunk, err := vm.Shrink(grown, 8192, 4096)
	require.NoError(t, err)
	assert.Equal(t, uintptr(4096), shrunk.(*memAddressSpace).sz)

	vm.Free(shrunk)
	vm.Switch(shrunk)
}

func TestMemFileTableDupClose(t *testing.T) {
	ft := newMemFileTable()
	f := &memFileRef{refs: 1}
	dup := ft.Dup(f)
	require.Equal(t, f, dup)
	assert.Equal(t, 2, f.refs)

	require.NoError(t, ft.Close(f))
	assert.Equal(t, 1, f.refs)
	require.NoError(t, ft.Close(f))
	assert.Equal(t, 0, f.refs)
	require.Error(t, ft.Close(f))
}

func TestMemInodeRefDupPut(t *testing.T) {
	inode := newMemInodeRef("/")
	dup := inode.Dup()
	assert.Equal(t, 2, dup.(*memInodeRef).refs)
	dup.Put()
	assert.Equal(t, 1, inode.refs)
	inode.Put()
	assert.Equal(t, 0, inode.refs)
}
