package sched

import (
	"runtime"

	"github.com/joeycumines/logiface"
)

// CPU is a per-CPU scheduler handle (spec §7 supplemental feature pulled
// from proc.c's mycpu()/cpuid()): it owns a current-process pointer and
// runs its own Scheduler loop goroutine. NumCPU of these run concurrently
// against one shared ProcTable.
type CPU struct {
	id int
	pt *ProcTable

	// current is read/written only by this CPU's own Run goroutine — the
	// one documented exception to "all PCB state is read/written under
	// pt.lock" (spec §3 Invariants).
	current *PCB
}

// ID returns the CPU's zero-based identifier.
func (c *CPU) ID() int { return c.id }

// Current returns the process currently RUNNING on this CPU, or nil if the
// CPU is idle. Safe to call only from this CPU's own Run goroutine.
func (c *CPU) Current() *PCB { return c.current }

// Run is the per-CPU scheduler loop (spec §4.8): acquire the PT lock,
// select the next process by policy, hand off the CPU (the channel-based
// analog of swtch), and on return clear the current-process pointer before
// repeating.
//
// There is no literal "enable interrupts" step: goroutines are already
// preemptively scheduled by the Go runtime, so the original's
// pushcli/popcli/sti bookkeeping around each iteration has no work to do
// here (see SPEC_FULL.md §8).
func (c *CPU) Run() {
	for {
		c.pt.lock.Lock()
		next := c.pt.policy.PickNext(c.pt)
		if next == nil {
			if c.pt.metrics != nil {
				c.pt.metrics.recordPick(false)
			}
			c.pt.lock.Unlock()
			runtime.Gosched()
			continue
		}
		if c.pt.metrics != nil {
			c.pt.metrics.recordPick(true)
			if dr, ok := c.pt.policy.(depthReporter); ok {
				depths := dr.Depths()
				for lvl, d := range depths {
					c.pt.metrics.setQueueDepth(lvl+1, d)
				}
			}
		}

		next.State = Running
		next.NumRun++
		c.current = next
		if c.pt.vm != nil && next.PGDir != nil {
			c.pt.vm.Switch(next.PGDir)
		}
		if c.pt.logger != nil {
			c.pt.logger.Event(logiface.LevelDebug, "sched", "dispatch", "pid", int(next.Pid), "cpu", c.id, "policy", c.pt.policy.Name())
		}

		// Hand the CPU to next's goroutine. pt.lock remains locked; next
		// inherits it and releases it as soon as it resumes (in forkret on
		// first dispatch, otherwise right after schedSwitch returns inside
		// Yield/Sleep). When next later calls Yield/Sleep/Exit it takes the
		// lock again and releases it before signalling parked.
		next.resume <- struct{}{}
		<-next.parked

		c.current = nil
		if c.pt.metrics != nil {
			c.pt.metrics.recordSwitch()
		}
	}
}
