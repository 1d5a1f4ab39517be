package sched

import "sync"

// NPROC is the fixed size of the process table (spec §4.1).
const NPROC = 64

// NOFILE is the number of open-file slots per process.
const NOFILE = 16

// Pid is a process identifier. 0 is reserved and never assigned.
type Pid int

// PCB is a process control block: one slot in the process table (spec §3).
// All fields except Chan/resume plumbing are read/written only while the
// owning ProcTable's lock is held; the one documented exception is a CPU
// reading its own current-process pointer (see CPU.Current).
type PCB struct {
	Pid      Pid
	Parent   *PCB
	State    ProcState
	Priority int

	KStack KStack
	PGDir  AddressSpace
	Sz     uintptr

	OFile [NOFILE]FileRef
	Cwd   InodeRef

	// Chan is the wait-channel identifier; valid only while Sleeping. Any
	// comparable value may be used as a channel, matching the opaque
	// "address" the original uses — callers typically pass a *PCB or a
	// small sentinel value.
	Chan any

	Killed bool
	Name   string

	CTime Tick
	ETime Tick

	RTime  Tick
	IOTime Tick

	NumRun int

	// LastTime is the tick at which the process's current MLFQ queue
	// residency began; Cq is ticks consumed at each MLFQ level (index 0 =
	// queue 1 .. index 4 = queue 5).
	LastTime Tick
	Cq       [5]uint64

	// WTime is the total ticks spent waiting (neither running nor in I/O
	// sleep). Waitx returns this value (ETime-CTime-RTime-IOTime) to the
	// reaper; nothing in this package stores it in this field.
	WTime Tick

	// run is the kernel-thread body driving this process between
	// scheduling points, set by AllocProc (via UserInit or Fork); nil only
	// when the caller passed a nil body.
	run func(*PCB)

	// resume is signalled by a CPU to hand the PCB's goroutine the CPU:
	// the channel-handoff analog of swtch. parked is signalled by the
	// PCB's goroutine when it returns control to the scheduler (via
	// schedSwitch from Yield/Sleep, or directly at the end of Exit).
	resume chan struct{}
	parked chan struct{}

	// mlfqElem holds the queue-bank's *list.Element for this PCB while it
	// is enqueued under the mlfq build; unused by other policies.
	mlfqElem any

	mu sync.Mutex
}

// newPCB returns a zeroed PCB ready for allocproc to populate.
func newPCB() *PCB {
	return &PCB{
		resume: make(chan struct{}),
		parked: make(chan struct{}),
	}
}

// reset clears a PCB back to its zero, UNUSED-ready form, replacing the
// resume/parked channels with fresh ones so a stale goroutine from a prior
// occupant can never resume into a new one.
func (p *PCB) reset() {
	*p = PCB{
		resume: make(chan struct{}),
		parked: make(chan struct{}),
	}
}
