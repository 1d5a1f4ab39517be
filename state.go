package sched

// ProcState is the state of a process control block.
//
// State Machine:
//
//	Unused → Embryo        [AllocProc]
//	Embryo → Runnable       [UserInit, tail of Fork]
//	Runnable → Running      [Scheduler dispatch]
//	Running → Runnable      [Yield]
//	Running → Sleeping      [Sleep]
//	Running → Zombie        [Exit]
//	Sleeping → Runnable     [Wakeup, Kill]
//	Zombie → Unused         [Wait, Waitx]
//
// Transitions are total and centralized: each arrow above is made only by
// the functions named beside it, and all reads/writes of State happen
// while the table's PT lock is held (the one documented exception is the
// scheduler reading its own CPU's current-process pointer).
type ProcState int

const (
	// Unused marks a free process-table slot.
	Unused ProcState = iota
	// Embryo is the transient state between AllocProc and the process
	// becoming schedulable.
	Embryo
	// Sleeping means the process is blocked on a wait-channel (Chan is
	// non-nil, valid only in this state).
	Sleeping
	// Runnable means the process may be dispatched by the scheduler.
	Runnable
	// Running means the process currently owns a CPU.
	Running
	// Zombie means the process has exited and awaits reaping by its
	// parent's Wait/Waitx.
	Zombie
)

// String returns a human-readable representation of the state, matching the
// names printed by CPS and ProcDump.
func (s ProcState) String() string {
	switch s {
	case Unused:
		return "UNUSED"
	case Embryo:
		return "EMBRYO"
	case Sleeping:
		return "SLEEPING"
	case Runnable:
		return "RUNNABLE"
	case Running:
		return "RUNNING"
	case Zombie:
		return "ZOMBIE"
	default:
		return "UNKNOWN"
	}
}
