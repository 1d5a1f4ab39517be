package sched

// Policy is the compile-time-selected scheduling strategy (spec §9 Design
// Notes). Exactly one implementation is linked into any build, chosen by a
// Go build tag on the implementing file (policy_roundrobin.go,
// policy_fcfs.go, policy_pbs.go, policy_mlfq.go) in place of the original's
// preprocessor #ifdef arms.
//
// Every method is called with pt.lock already held by the caller.
type Policy interface {
	// Name identifies the policy, e.g. for logging.
	Name() string

	// PickNext scans the table and returns the next process to dispatch,
	// or nil if none is runnable right now.
	PickNext(pt *ProcTable) *PCB

	// OnYield is invoked after a RUNNING process has been flipped back to
	// Runnable by Yield, before the PT lock is released. Policies that
	// track per-level quanta (MLFQ) perform demotion bookkeeping here.
	OnYield(pt *ProcTable, p *PCB)

	// OnWake is invoked when p transitions into Runnable from Sleeping,
	// Embryo, or upon creation. Policies with explicit ready queues (MLFQ)
	// enqueue p here.
	OnWake(pt *ProcTable, p *PCB)

	// OnExit is invoked when p becomes Zombie, so queue-based policies can
	// drop any membership they were holding.
	OnExit(pt *ProcTable, p *PCB)
}

// runnableSlots returns the table's slots in fixed array order, the
// "table order" tie-break referenced throughout spec §4.8.
func runnableSlots(pt *ProcTable) []*PCB {
	return pt.slots[:]
}

// depthReporter is implemented by policies with explicit ready queues
// (mlfq) so Metrics can report per-level occupancy; policies without
// queues simply don't implement it.
type depthReporter interface {
	Depths() [5]int
}
