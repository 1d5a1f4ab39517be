package sched

import "sync"

// ProcTable is the process table (spec §4.1): a fixed-size array of PCB
// slots guarded by a single lock, the one point of serialization for every
// state transition, parent/child link, and queue membership change in this
// package.
type ProcTable struct {
	// lock is the PT lock. Every exported lifecycle/scheduler operation
	// acquires it before touching any PCB's State, Priority, queue
	// membership, or Parent link.
	lock sync.Mutex

	slots [NPROC]*PCB
	init  *PCB

	nextPid Pid

	clock   Clock
	logger  Logger
	metrics *Metrics
	kstack  KernelStackAllocator
	vm      VM
	files   FileTable

	clicksPer [5]uint64
	agingTick uint64

	policy Policy
	fsInit sync.Once

	cpus []*CPU
}

// NewProcTable constructs a ProcTable and its CPUs, applying opts over the
// documented defaults. The returned table has no processes yet; call
// UserInit to create the first one, then Start to launch the per-CPU
// scheduler loops.
func NewProcTable(opts ...Option) (*ProcTable, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	pt := &ProcTable{
		nextPid:   1,
		clock:     cfg.clock,
		logger:    cfg.logger,
		kstack:    cfg.kstack,
		vm:        cfg.vm,
		files:     cfg.files,
		clicksPer: cfg.clicksPer,
		agingTick: cfg.agingTick,
		policy:    newPolicy(),
	}
	for i := range pt.slots {
		pt.slots[i] = newPCB()
	}
	if cfg.metrics {
		pt.metrics = newMetrics()
	}

	pt.cpus = make([]*CPU, cfg.numCPU)
	for i := range pt.cpus {
		pt.cpus[i] = &CPU{id: i, pt: pt}
	}
	return pt, nil
}

// CPUs returns the table's per-CPU scheduler handles.
func (pt *ProcTable) CPUs() []*CPU { return pt.cpus }

// Start launches every CPU's scheduler loop in its own goroutine.
func (pt *ProcTable) Start() {
	for _, c := range pt.cpus {
		go c.Run()
	}
}

// findSlotLocked returns the first slot with State == Unused, or nil. Caller must
// hold pt.lock.
func (pt *ProcTable) findSlotLocked() *PCB {
	for _, p := range pt.slots {
		if p.State == Unused {
			return p
		}
	}
	return nil
}

// lookupLocked returns the PCB with the given pid, or nil. Caller must hold
// pt.lock.
func (pt *ProcTable) lookupLocked(pid Pid) *PCB {
	for _, p := range pt.slots {
		if p.State != Unused && p.Pid == pid {
			return p
		}
	}
	return nil
}

// Tick advances the table's Clock by one tick, if it is the default
// in-memory tickClock (an external real-time-driven Clock advances on its
// own). It is a convenience for tests and the CLI demo driving the timer
// loop manually.
func (pt *ProcTable) Tick() Tick {
	if c, ok := pt.clock.(*tickClock); ok {
		return c.Advance(1)
	}
	return pt.clock.Now()
}

// Metrics returns the table's runtime metrics, or nil if it was constructed
// without WithMetrics(true).
func (pt *ProcTable) Metrics() *Metrics { return pt.metrics }

// Policy returns the name of the compile-time-selected scheduling policy
// baked into this build (spec §4.8): "round-robin", "fcfs", "pbs", or
// "mlfq". Exposed for CLI/introspection call sites that want to report
// which policy a given binary was built with.
func (pt *ProcTable) Policy() string { return pt.policy.Name() }

// chargeTick charges one tick of run time to p and advances the table's
// Clock, keeping CTime/ETime and RTime/IOTime drawn from the same moving
// clock so rtime+iotime<=etime-ctime holds (spec §3 Invariants). Caller
// must hold pt.lock. It charges unconditionally, so a process dispatched
// and immediately descheduled without doing work is still charged one
// tick: "one tick" is this model's smallest unit of CPU time, same as a
// single scheduling round in the original.
func chargeTick(pt *ProcTable, p *PCB) {
	p.RTime++
	pt.Tick()
}
