// Package sched implements the process scheduling core of a small teaching
// operating-system kernel: the global process table, the per-CPU scheduler
// loop, context handoff between the scheduler and process kernel threads,
// sleep/wakeup synchronization on wait-channels, and four interchangeable
// scheduling policies (round-robin, FCFS, PBS, MLFQ).
//
// # Architecture
//
// A [ProcTable] is a fixed-size array of [PCB] slots guarded by a single
// [sync.Mutex] — the "PT lock" — which is the one point of serialization for
// every state transition in the system. One or more [CPU] values each run
// [CPU.Run] — the per-CPU scheduler loop — against the same table, selecting
// the next runnable process under whichever [Policy] was compiled in (see
// the policy_*.go files, each gated by a build tag) and context-switching
// into it.
//
// Since Go has no literal register-level context switch, the handoff between
// a process's kernel thread and the scheduler thread ([Yield], [Sleep],
// [Wakeup]) is modeled with a pair of unbuffered channels per PCB:
// the scheduler releases a process by signaling its resume channel and then
// blocks on its parked channel until the process calls back into the
// scheduler. This preserves the core invariant — at most one of
// {scheduler, process} is ever actually making progress on a given CPU at a
// time — without requiring a real kernel stack or trap frame.
//
// # Lifecycle
//
// [AllocProc], [UserInit], [Fork], [Exit], [Wait], [Waitx], and [Kill]
// implement process creation, the first user process, forking, exit with
// reparenting-to-init, zombie reaping, and asynchronous kill signaling.
//
// # Policies
//
// Exactly one [Policy] implementation is compiled into any given build,
// selected via Go build tags: default (round-robin, no tag required), fcfs,
// pbs, or mlfq. All four share the same [ProcTable] and lifecycle code; only
// the dispatch, demotion, and wake-enqueue logic differs.
//
// # Introspection
//
// [GetPInfo], [CPS], [CPR], and [ProcDump] expose scheduling metadata to
// user-space and debugging consumers, mirroring the syscalls of the same
// name in the original kernel.
package sched
