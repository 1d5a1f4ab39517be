// External collaborator interfaces (spec §6): the virtual memory subsystem,
// file subsystem, kernel stack allocator, and monotonic tick source the
// scheduler core consumes but does not implement. Each has a minimal
// in-memory default sufficient for tests and the CLI demo; a real kernel
// would substitute its own VM/FS/stack layer behind the same interfaces.
package sched

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Tick is a monotonic tick count, incremented by the timer interrupt. It is
// not wall-clock time.
type Tick uint64

// Clock is the monotonic tick source consulted by accounting and aging
// logic (ctime/etime, rtime/iotime, MLFQ last_time/cq).
type Clock interface {
	// Now returns the current tick count.
	Now() Tick
}

// tickClock is the default Clock: an in-memory counter advanced explicitly
// by Advance (there is no real timer interrupt in this module; callers that
// want wall-clock-driven ticks should call Advance from their own ticker).
type tickClock struct {
	n atomic.Uint64
}

func newTickClock() *tickClock { return &tickClock{} }

func (c *tickClock) Now() Tick { return Tick(c.n.Load()) }

// Advance moves the clock forward by delta ticks and returns the new value.
func (c *tickClock) Advance(delta uint64) Tick { return Tick(c.n.Add(delta)) }

// KStack is an opaque handle to an allocated kernel stack.
type KStack interface{}

// KernelStackAllocator provides page-sized kernel stacks for new PCBs
// (spec §6 alloc_kstack/free_kstack).
type KernelStackAllocator interface {
	Alloc() (KStack, error)
	Free(KStack)
}

const kstackSize = 4096

// memKStack is a plain byte buffer standing in for a kernel stack page.
type memKStack struct {
	buf [kstackSize]byte
}

type memKernelStackAllocator struct{}

func newMemKernelStackAllocator() *memKernelStackAllocator { return &memKernelStackAllocator{} }

func (*memKernelStackAllocator) Alloc() (KStack, error) { return new(memKStack), nil }

func (*memKernelStackAllocator) Free(KStack) {}

// AddressSpace is an opaque handle to a process's page directory / address
// space, returned by VM.
type AddressSpace interface{}

// VM models the virtual memory subsystem's process-facing surface (spec §6
// vm_setup_kernel/vm_clone/vm_grow/vm_shrink/vm_free/vm_switch). It is
// consumed, never implemented, by the scheduler core.
type VM interface {
	SetupKernel() (AddressSpace, error)
	Clone(src AddressSpace, sz uintptr) (AddressSpace, error)
	Grow(pg AddressSpace, oldSz, newSz uintptr) (AddressSpace, error)
	Shrink(pg AddressSpace, oldSz, newSz uintptr) (AddressSpace, error)
	Free(pg AddressSpace)
	Switch(pg AddressSpace)
}

// memAddressSpace tracks only the size a real VM would back with page
// tables — enough for Fork/Exit bookkeeping in tests and the CLI demo.
type memAddressSpace struct {
	mu sync.Mutex
	sz uintptr
}

type memVM struct{}

func newMemVM() *memVM { return &memVM{} }

func (*memVM) SetupKernel() (AddressSpace, error) { return &memAddressSpace{}, nil }

func (*memVM) Clone(src AddressSpace, sz uintptr) (AddressSpace, error) {
	return &memAddressSpace{sz: sz}, nil
}

func (*memVM) Grow(pg AddressSpace, oldSz, newSz uintptr) (AddressSpace, error) {
	a, ok := pg.(*memAddressSpace)
	if !ok {
		return nil, fmt.Errorf("sched: Grow: not a memAddressSpace")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sz = newSz
	return a, nil
}

func (*memVM) Shrink(pg AddressSpace, oldSz, newSz uintptr) (AddressSpace, error) {
	a, ok := pg.(*memAddressSpace)
	if !ok {
		return nil, fmt.Errorf("sched: Shrink: not a memAddressSpace")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sz = newSz
	return a, nil
}

func (*memVM) Free(AddressSpace) {}

func (*memVM) Switch(AddressSpace) {}

// FileRef is an opaque reference to an open file, duplicated/closed by
// FileTable (spec §6 file_dup/file_close).
type FileRef interface{}

// FileTable models open-file reference management. A PCB's ofile[NOFILE]
// entries and cwd are FileRef/InodeRef values managed through this
// interface; the scheduler core never inspects file contents.
type FileTable interface {
	Dup(FileRef) FileRef
	Close(FileRef) error
}

type memFileRef struct {
	mu   sync.Mutex
	refs int
}

type memFileTable struct{}

func newMemFileTable() *memFileTable { return &memFileTable{} }

func (*memFileTable) Dup(f FileRef) FileRef {
	if r, ok := f.(*memFileRef); ok {
		r.mu.Lock()
		r.refs++
		r.mu.Unlock()
	}
	return f
}

func (*memFileTable) Close(f FileRef) error {
	r, ok := f.(*memFileRef)
	if !ok {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs <= 0 {
		return fmt.Errorf("sched: Close: reference count already zero")
	}
	r.refs--
	return nil
}

// InodeRef is a reference-counted inode handle (spec §6 inode_dup/inode_put),
// used for a PCB's cwd.
type InodeRef interface {
	Dup() InodeRef
	Put()
}

// memInodeRef is a minimal in-memory InodeRef sufficient for cwd bookkeeping
// in tests; Path is purely cosmetic (e.g. "/" for the init process).
type memInodeRef struct {
	mu   sync.Mutex
	refs int
	Path string
}

func newMemInodeRef(path string) *memInodeRef {
	return &memInodeRef{refs: 1, Path: path}
}

func (r *memInodeRef) Dup() InodeRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs++
	return r
}

func (r *memInodeRef) Put() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs > 0 {
		r.refs--
	}
}
